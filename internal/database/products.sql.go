package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, reference, name, type, brand, color, category,
	purchase_price, selling_price, stock_quantity, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Reference,
		&p.Name,
		&p.Type,
		&p.Brand,
		&p.Color,
		&p.Category,
		&p.PurchasePrice,
		&p.SellingPrice,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const createProduct = `
INSERT INTO product (reference, name, type, brand, color, category, purchase_price, selling_price, stock_quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + productColumns

type CreateProductParams struct {
	Reference     string
	Name          string
	Type          pgtype.Text
	Brand         pgtype.Text
	Color         pgtype.Text
	Category      pgtype.Text
	PurchasePrice pgtype.Numeric
	SellingPrice  pgtype.Numeric
	StockQuantity int32
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Reference,
		arg.Name,
		arg.Type,
		arg.Brand,
		arg.Color,
		arg.Category,
		arg.PurchasePrice,
		arg.SellingPrice,
		arg.StockQuantity,
	)
	return scanProduct(row)
}

const getProduct = `
SELECT ` + productColumns + `
FROM product
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const listProducts = `
SELECT ` + productColumns + `
FROM product
WHERE ($1::text IS NULL
	OR name ILIKE '%' || $1 || '%'
	OR brand ILIKE '%' || $1 || '%'
	OR reference ILIKE '%' || $1 || '%')
ORDER BY reference
LIMIT $2 OFFSET $3
`

type ListProductsParams struct {
	Search pgtype.Text
	Limit  int32
	Offset int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const listAvailableProducts = `
SELECT ` + productColumns + `
FROM product
WHERE stock_quantity > 0
ORDER BY reference
`

// ListAvailableProducts returns products with positive stock, the set an
// order form may choose from.
func (q *Queries) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listAvailableProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const updateProduct = `
UPDATE product
SET reference = $2,
	name = $3,
	type = $4,
	brand = $5,
	color = $6,
	category = $7,
	purchase_price = $8,
	selling_price = $9,
	stock_quantity = $10,
	updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID            uuid.UUID
	Reference     string
	Name          string
	Type          pgtype.Text
	Brand         pgtype.Text
	Color         pgtype.Text
	Category      pgtype.Text
	PurchasePrice pgtype.Numeric
	SellingPrice  pgtype.Numeric
	StockQuantity int32
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Reference,
		arg.Name,
		arg.Type,
		arg.Brand,
		arg.Color,
		arg.Category,
		arg.PurchasePrice,
		arg.SellingPrice,
		arg.StockQuantity,
	)
	return scanProduct(row)
}

const updateProductStock = `
UPDATE product
SET stock_quantity = $2,
	updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductStockParams struct {
	ID            uuid.UUID
	StockQuantity int32
}

// UpdateProductStock sets the absolute stock count. The order service
// computes the new value; no floor is enforced here, stock can go negative.
func (q *Queries) UpdateProductStock(ctx context.Context, arg UpdateProductStockParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProductStock, arg.ID, arg.StockQuantity))
}

const deleteProduct = `
DELETE FROM product
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteProduct, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
