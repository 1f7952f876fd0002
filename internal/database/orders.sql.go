package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_date, delivery_date, client_id, doctor_id, social_security,
	left_sph, left_cyl, left_axis, left_add, left_ep, left_hp, left_prism, left_prism_axis,
	right_sph, right_cyl, right_axis, right_add, right_ep, right_hp, right_prism, right_prism_axis,
	glass_type, glass_index, total_amount, status, created_at, updated_at`

func orderFields(o *Order) []interface{} {
	return []interface{}{
		&o.ID, &o.OrderDate, &o.DeliveryDate, &o.ClientID, &o.DoctorID, &o.SocialSecurity,
		&o.LeftSph, &o.LeftCyl, &o.LeftAxis, &o.LeftAdd, &o.LeftEp, &o.LeftHp, &o.LeftPrism, &o.LeftPrismAxis,
		&o.RightSph, &o.RightCyl, &o.RightAxis, &o.RightAdd, &o.RightEp, &o.RightHp, &o.RightPrism, &o.RightPrismAxis,
		&o.GlassType, &o.GlassIndex, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	}
}

// EyeMeasurements groups the numeric prescription values for one eye.
type EyeMeasurements struct {
	Sph       pgtype.Numeric
	Cyl       pgtype.Numeric
	Axis      pgtype.Numeric
	Add       pgtype.Numeric
	Ep        pgtype.Numeric
	Hp        pgtype.Numeric
	Prism     pgtype.Numeric
	PrismAxis pgtype.Numeric
}

const createOrder = `
INSERT INTO orders (
	order_date, delivery_date, client_id, doctor_id, social_security,
	left_sph, left_cyl, left_axis, left_add, left_ep, left_hp, left_prism, left_prism_axis,
	right_sph, right_cyl, right_axis, right_add, right_ep, right_hp, right_prism, right_prism_axis,
	glass_type, glass_index, total_amount, status
)
VALUES ($1, $2, $3, $4, $5,
	$6, $7, $8, $9, $10, $11, $12, $13,
	$14, $15, $16, $17, $18, $19, $20, $21,
	$22, $23, $24, $25)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	OrderDate      pgtype.Timestamptz
	DeliveryDate   pgtype.Date
	ClientID       uuid.UUID
	DoctorID       pgtype.UUID
	SocialSecurity bool
	LeftEye        EyeMeasurements
	RightEye       EyeMeasurements
	GlassType      string
	GlassIndex     pgtype.Numeric
	TotalAmount    pgtype.Numeric
	Status         string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderDate, arg.DeliveryDate, arg.ClientID, arg.DoctorID, arg.SocialSecurity,
		arg.LeftEye.Sph, arg.LeftEye.Cyl, arg.LeftEye.Axis, arg.LeftEye.Add,
		arg.LeftEye.Ep, arg.LeftEye.Hp, arg.LeftEye.Prism, arg.LeftEye.PrismAxis,
		arg.RightEye.Sph, arg.RightEye.Cyl, arg.RightEye.Axis, arg.RightEye.Add,
		arg.RightEye.Ep, arg.RightEye.Hp, arg.RightEye.Prism, arg.RightEye.PrismAxis,
		arg.GlassType, arg.GlassIndex, arg.TotalAmount, arg.Status,
	)
	var o Order
	err := row.Scan(orderFields(&o)...)
	return o, err
}

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	var o Order
	err := q.db.QueryRow(ctx, getOrder, id).Scan(orderFields(&o)...)
	return o, err
}

const listOrders = `
SELECT o.id, o.order_date, o.delivery_date, o.client_id, o.doctor_id, o.social_security,
	o.left_sph, o.left_cyl, o.left_axis, o.left_add, o.left_ep, o.left_hp, o.left_prism, o.left_prism_axis,
	o.right_sph, o.right_cyl, o.right_axis, o.right_add, o.right_ep, o.right_hp, o.right_prism, o.right_prism_axis,
	o.glass_type, o.glass_index, o.total_amount, o.status, o.created_at, o.updated_at,
	c.first_name, c.last_name,
	d.first_name, d.last_name
FROM orders o
JOIN client c ON c.id = o.client_id
LEFT JOIN doctor d ON d.id = o.doctor_id
ORDER BY o.order_date DESC
LIMIT $1 OFFSET $2
`

type ListOrdersParams struct {
	Limit  int32
	Offset int32
}

// ListOrdersRow is an order joined with its client and doctor names,
// newest first.
type ListOrdersRow struct {
	Order           Order
	ClientFirstName string
	ClientLastName  string
	DoctorFirstName pgtype.Text
	DoctorLastName  pgtype.Text
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]ListOrdersRow, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrdersRow
	for rows.Next() {
		var r ListOrdersRow
		fields := orderFields(&r.Order)
		fields = append(fields, &r.ClientFirstName, &r.ClientLastName, &r.DoctorFirstName, &r.DoctorLastName)
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const updateOrder = `
UPDATE orders
SET delivery_date = $2,
	doctor_id = $3,
	social_security = $4,
	left_sph = $5, left_cyl = $6, left_axis = $7, left_add = $8,
	left_ep = $9, left_hp = $10, left_prism = $11, left_prism_axis = $12,
	right_sph = $13, right_cyl = $14, right_axis = $15, right_add = $16,
	right_ep = $17, right_hp = $18, right_prism = $19, right_prism_axis = $20,
	glass_type = $21, glass_index = $22, total_amount = $23, status = $24,
	updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

// UpdateOrderParams intentionally omits order_date and client_id: the
// order date is immutable after creation and an order never changes owner.
type UpdateOrderParams struct {
	ID             uuid.UUID
	DeliveryDate   pgtype.Date
	DoctorID       pgtype.UUID
	SocialSecurity bool
	LeftEye        EyeMeasurements
	RightEye       EyeMeasurements
	GlassType      string
	GlassIndex     pgtype.Numeric
	TotalAmount    pgtype.Numeric
	Status         string
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrder,
		arg.ID, arg.DeliveryDate, arg.DoctorID, arg.SocialSecurity,
		arg.LeftEye.Sph, arg.LeftEye.Cyl, arg.LeftEye.Axis, arg.LeftEye.Add,
		arg.LeftEye.Ep, arg.LeftEye.Hp, arg.LeftEye.Prism, arg.LeftEye.PrismAxis,
		arg.RightEye.Sph, arg.RightEye.Cyl, arg.RightEye.Axis, arg.RightEye.Add,
		arg.RightEye.Ep, arg.RightEye.Hp, arg.RightEye.Prism, arg.RightEye.PrismAxis,
		arg.GlassType, arg.GlassIndex, arg.TotalAmount, arg.Status,
	)
	var o Order
	err := row.Scan(orderFields(&o)...)
	return o, err
}

const deleteOrder = `
DELETE FROM orders
WHERE id = $1
RETURNING id
`

// DeleteOrder removes the order row; line items, vision, and treatment
// rows follow via ON DELETE CASCADE.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteOrder, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// --- Line items ---

const createOrderProduct = `
INSERT INTO order_product (order_id, product_id, quantity, unit_price, sub_total)
VALUES ($1, $2, $3, $4, $5)
RETURNING order_id, product_id, quantity, unit_price, sub_total
`

type CreateOrderProductParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice pgtype.Numeric
	SubTotal  pgtype.Numeric
}

func (q *Queries) CreateOrderProduct(ctx context.Context, arg CreateOrderProductParams) (OrderProduct, error) {
	row := q.db.QueryRow(ctx, createOrderProduct,
		arg.OrderID, arg.ProductID, arg.Quantity, arg.UnitPrice, arg.SubTotal)
	var op OrderProduct
	err := row.Scan(&op.OrderID, &op.ProductID, &op.Quantity, &op.UnitPrice, &op.SubTotal)
	return op, err
}

const updateOrderProduct = `
UPDATE order_product
SET quantity = $3,
	unit_price = $4,
	sub_total = $5
WHERE order_id = $1 AND product_id = $2
RETURNING order_id, product_id, quantity, unit_price, sub_total
`

type UpdateOrderProductParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice pgtype.Numeric
	SubTotal  pgtype.Numeric
}

func (q *Queries) UpdateOrderProduct(ctx context.Context, arg UpdateOrderProductParams) (OrderProduct, error) {
	row := q.db.QueryRow(ctx, updateOrderProduct,
		arg.OrderID, arg.ProductID, arg.Quantity, arg.UnitPrice, arg.SubTotal)
	var op OrderProduct
	err := row.Scan(&op.OrderID, &op.ProductID, &op.Quantity, &op.UnitPrice, &op.SubTotal)
	return op, err
}

const deleteOrderProduct = `
DELETE FROM order_product
WHERE order_id = $1 AND product_id = $2
`

type DeleteOrderProductParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) DeleteOrderProduct(ctx context.Context, arg DeleteOrderProductParams) error {
	_, err := q.db.Exec(ctx, deleteOrderProduct, arg.OrderID, arg.ProductID)
	return err
}

const listOrderLines = `
SELECT op.order_id, op.product_id, op.quantity, op.unit_price, op.sub_total,
	p.name, p.stock_quantity, p.selling_price
FROM order_product op
JOIN product p ON p.id = op.product_id
WHERE op.order_id = $1
ORDER BY p.name
`

// ListOrderLinesRow is a persisted line item joined with the referenced
// product's name and live stock count.
type ListOrderLinesRow struct {
	OrderID       uuid.UUID
	ProductID     uuid.UUID
	Quantity      int32
	UnitPrice     pgtype.Numeric
	SubTotal      pgtype.Numeric
	ProductName   string
	StockQuantity int32
	SellingPrice  pgtype.Numeric
}

func (q *Queries) ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]ListOrderLinesRow, error) {
	rows, err := q.db.Query(ctx, listOrderLines, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOrderLinesRow
	for rows.Next() {
		var r ListOrderLinesRow
		if err := rows.Scan(
			&r.OrderID, &r.ProductID, &r.Quantity, &r.UnitPrice, &r.SubTotal,
			&r.ProductName, &r.StockQuantity, &r.SellingPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// --- Vision flags ---

const createOrderVision = `
INSERT INTO order_vision (order_id, far_sightedness, near_sightedness, progressive, solar)
VALUES ($1, $2, $3, $4, $5)
RETURNING order_id, far_sightedness, near_sightedness, progressive, solar
`

type CreateOrderVisionParams struct {
	OrderID         uuid.UUID
	FarSightedness  bool
	NearSightedness bool
	Progressive     bool
	Solar           bool
}

func (q *Queries) CreateOrderVision(ctx context.Context, arg CreateOrderVisionParams) (OrderVision, error) {
	row := q.db.QueryRow(ctx, createOrderVision,
		arg.OrderID, arg.FarSightedness, arg.NearSightedness, arg.Progressive, arg.Solar)
	var v OrderVision
	err := row.Scan(&v.OrderID, &v.FarSightedness, &v.NearSightedness, &v.Progressive, &v.Solar)
	return v, err
}

const getOrderVision = `
SELECT order_id, far_sightedness, near_sightedness, progressive, solar
FROM order_vision
WHERE order_id = $1
`

func (q *Queries) GetOrderVision(ctx context.Context, orderID uuid.UUID) (OrderVision, error) {
	var v OrderVision
	err := q.db.QueryRow(ctx, getOrderVision, orderID).
		Scan(&v.OrderID, &v.FarSightedness, &v.NearSightedness, &v.Progressive, &v.Solar)
	return v, err
}

const updateOrderVision = `
UPDATE order_vision
SET far_sightedness = $2,
	near_sightedness = $3,
	progressive = $4,
	solar = $5
WHERE order_id = $1
RETURNING order_id, far_sightedness, near_sightedness, progressive, solar
`

type UpdateOrderVisionParams struct {
	OrderID         uuid.UUID
	FarSightedness  bool
	NearSightedness bool
	Progressive     bool
	Solar           bool
}

func (q *Queries) UpdateOrderVision(ctx context.Context, arg UpdateOrderVisionParams) (OrderVision, error) {
	row := q.db.QueryRow(ctx, updateOrderVision,
		arg.OrderID, arg.FarSightedness, arg.NearSightedness, arg.Progressive, arg.Solar)
	var v OrderVision
	err := row.Scan(&v.OrderID, &v.FarSightedness, &v.NearSightedness, &v.Progressive, &v.Solar)
	return v, err
}

// --- Treatment flags ---

const createOrderTreatment = `
INSERT INTO order_treatment (order_id, white, anti_blue_light, anti_reflexion, degraded, polarized, mirrored, transitions, uni_color)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING order_id, white, anti_blue_light, anti_reflexion, degraded, polarized, mirrored, transitions, uni_color
`

type CreateOrderTreatmentParams struct {
	OrderID       uuid.UUID
	White         bool
	AntiBlueLight bool
	AntiReflexion bool
	Degraded      bool
	Polarized     bool
	Mirrored      bool
	Transitions   bool
	UniColor      bool
}

func (q *Queries) CreateOrderTreatment(ctx context.Context, arg CreateOrderTreatmentParams) (OrderTreatment, error) {
	row := q.db.QueryRow(ctx, createOrderTreatment,
		arg.OrderID, arg.White, arg.AntiBlueLight, arg.AntiReflexion, arg.Degraded,
		arg.Polarized, arg.Mirrored, arg.Transitions, arg.UniColor)
	var t OrderTreatment
	err := row.Scan(&t.OrderID, &t.White, &t.AntiBlueLight, &t.AntiReflexion, &t.Degraded,
		&t.Polarized, &t.Mirrored, &t.Transitions, &t.UniColor)
	return t, err
}

const getOrderTreatment = `
SELECT order_id, white, anti_blue_light, anti_reflexion, degraded, polarized, mirrored, transitions, uni_color
FROM order_treatment
WHERE order_id = $1
`

func (q *Queries) GetOrderTreatment(ctx context.Context, orderID uuid.UUID) (OrderTreatment, error) {
	var t OrderTreatment
	err := q.db.QueryRow(ctx, getOrderTreatment, orderID).
		Scan(&t.OrderID, &t.White, &t.AntiBlueLight, &t.AntiReflexion, &t.Degraded,
			&t.Polarized, &t.Mirrored, &t.Transitions, &t.UniColor)
	return t, err
}

const updateOrderTreatment = `
UPDATE order_treatment
SET white = $2,
	anti_blue_light = $3,
	anti_reflexion = $4,
	degraded = $5,
	polarized = $6,
	mirrored = $7,
	transitions = $8,
	uni_color = $9
WHERE order_id = $1
RETURNING order_id, white, anti_blue_light, anti_reflexion, degraded, polarized, mirrored, transitions, uni_color
`

type UpdateOrderTreatmentParams struct {
	OrderID       uuid.UUID
	White         bool
	AntiBlueLight bool
	AntiReflexion bool
	Degraded      bool
	Polarized     bool
	Mirrored      bool
	Transitions   bool
	UniColor      bool
}

func (q *Queries) UpdateOrderTreatment(ctx context.Context, arg UpdateOrderTreatmentParams) (OrderTreatment, error) {
	row := q.db.QueryRow(ctx, updateOrderTreatment,
		arg.OrderID, arg.White, arg.AntiBlueLight, arg.AntiReflexion, arg.Degraded,
		arg.Polarized, arg.Mirrored, arg.Transitions, arg.UniColor)
	var t OrderTreatment
	err := row.Scan(&t.OrderID, &t.White, &t.AntiBlueLight, &t.AntiReflexion, &t.Degraded,
		&t.Polarized, &t.Mirrored, &t.Transitions, &t.UniColor)
	return t, err
}
