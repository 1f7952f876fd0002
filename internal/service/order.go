package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/optique-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create, edit, and delete
// orders. Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderLinesRow, error)
	CreateOrderProduct(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error)
	UpdateOrderProduct(ctx context.Context, arg database.UpdateOrderProductParams) (database.OrderProduct, error)
	DeleteOrderProduct(ctx context.Context, arg database.DeleteOrderProductParams) error
	UpdateProductStock(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error)
	CreateOrderVision(ctx context.Context, arg database.CreateOrderVisionParams) (database.OrderVision, error)
	UpdateOrderVision(ctx context.Context, arg database.UpdateOrderVisionParams) (database.OrderVision, error)
	CreateOrderTreatment(ctx context.Context, arg database.CreateOrderTreatmentParams) (database.OrderTreatment, error)
	UpdateOrderTreatment(ctx context.Context, arg database.UpdateOrderTreatmentParams) (database.OrderTreatment, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderLine is one desired product line as submitted by the order form.
// StockSnapshot is the product's stock quantity as the form saw it when
// it was loaded; stock adjustments for added and kept lines are computed
// against this snapshot, not the live value.
type OrderLine struct {
	ProductID     uuid.UUID
	Quantity      int32
	UnitPrice     decimal.Decimal
	StockSnapshot int32
}

// ExistingLine is a persisted line item joined with the product's live
// stock count.
type ExistingLine struct {
	ProductID uuid.UUID
	Quantity  int32
	LiveStock int32
}

// VisionFlags mirrors the order_vision checklist.
type VisionFlags struct {
	FarSightedness  bool
	NearSightedness bool
	Progressive     bool
	Solar           bool
}

// TreatmentFlags mirrors the order_treatment checklist.
type TreatmentFlags struct {
	White         bool
	AntiBlueLight bool
	AntiReflexion bool
	Degraded      bool
	Polarized     bool
	Mirrored      bool
	Transitions   bool
	UniColor      bool
}

// --- Reconciliation plan ---

// RemovedLine restores the removed quantity onto the product's live
// stock and deletes the line item row.
type RemovedLine struct {
	ProductID uuid.UUID
	Quantity  int32
	NewStock  int32
}

// AddedLine inserts a fresh line item and charges the ordered quantity
// against the form's stock snapshot.
type AddedLine struct {
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice decimal.Decimal
	SubTotal  decimal.Decimal
	NewStock  int32
}

// UpdatedLine rewrites a kept line item. QuantityDiff is old minus new;
// the stock is set to the snapshot plus that diff. A kept line with an
// unchanged quantity is still rewritten (diff zero).
type UpdatedLine struct {
	ProductID    uuid.UUID
	Quantity     int32
	UnitPrice    decimal.Decimal
	SubTotal     decimal.Decimal
	QuantityDiff int32
	NewStock     int32
}

// Plan is the computed difference between an order's persisted lines and
// the newly submitted set, partitioned by product id.
type Plan struct {
	Removed []RemovedLine
	Updated []UpdatedLine
	Added   []AddedLine
}

// LineTotal sums the subtotals of all lines that will exist after the
// plan is applied.
func (p Plan) LineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, u := range p.Updated {
		total = total.Add(u.SubTotal)
	}
	for _, a := range p.Added {
		total = total.Add(a.SubTotal)
	}
	return total
}

// subTotal rounds quantity times unit price to two decimals. This is the
// only point where currency values are rounded.
func subTotal(quantity int32, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt32(quantity)).Round(2)
}

// BuildPlan partitions the persisted lines against the desired set:
// persisted lines absent from the desired set are removed, persisted
// lines still present are updated, and desired lines with no persisted
// match are added. Pure function; the caller applies the result.
//
// Quantities of zero are accepted and stock is allowed to go negative;
// the form is trusted the same way the gateway trusts it elsewhere.
func BuildPlan(existing []ExistingLine, desired []OrderLine) Plan {
	desiredByProduct := make(map[uuid.UUID]OrderLine, len(desired))
	for _, line := range desired {
		desiredByProduct[line.ProductID] = line
	}
	existingByProduct := make(map[uuid.UUID]ExistingLine, len(existing))
	for _, line := range existing {
		existingByProduct[line.ProductID] = line
	}

	var plan Plan
	for _, old := range existing {
		want, kept := desiredByProduct[old.ProductID]
		if !kept {
			plan.Removed = append(plan.Removed, RemovedLine{
				ProductID: old.ProductID,
				Quantity:  old.Quantity,
				NewStock:  old.LiveStock + old.Quantity,
			})
			continue
		}
		diff := old.Quantity - want.Quantity
		plan.Updated = append(plan.Updated, UpdatedLine{
			ProductID:    want.ProductID,
			Quantity:     want.Quantity,
			UnitPrice:    want.UnitPrice,
			SubTotal:     subTotal(want.Quantity, want.UnitPrice),
			QuantityDiff: diff,
			NewStock:     want.StockSnapshot + diff,
		})
	}
	for _, want := range desired {
		if _, exists := existingByProduct[want.ProductID]; exists {
			continue
		}
		plan.Added = append(plan.Added, AddedLine{
			ProductID: want.ProductID,
			Quantity:  want.Quantity,
			UnitPrice: want.UnitPrice,
			SubTotal:  subTotal(want.Quantity, want.UnitPrice),
			NewStock:  want.StockSnapshot - want.Quantity,
		})
	}
	return plan
}

// --- Service ---

// CreateOrderRequest carries the order header, the product lines, and
// both checklists for a new order.
type CreateOrderRequest struct {
	Header    database.CreateOrderParams
	Lines     []OrderLine
	Vision    VisionFlags
	Treatment TreatmentFlags
}

// UpdateOrderRequest carries the edited header and the full desired line
// set for an existing order.
type UpdateOrderRequest struct {
	OrderID   uuid.UUID
	Header    database.UpdateOrderParams
	Lines     []OrderLine
	Vision    VisionFlags
	Treatment TreatmentFlags
}

// OrderResult is the persisted order with its line items.
type OrderResult struct {
	Order database.Order
	Lines []database.OrderProduct
}

// OrderService owns order creation, edit reconciliation, and deletion.
// Every mutation runs in a single transaction so a failure cannot leave
// stock counts and line items disagreeing.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder inserts the order row, every submitted line, and the two
// checklist rows, decrementing each product's stock by the ordered
// quantity against the form's snapshot.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.CreateOrder(ctx, req.Header)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var lines []database.OrderProduct
	lineTotal := decimal.Zero
	for _, line := range req.Lines {
		st := subTotal(line.Quantity, line.UnitPrice)
		lineTotal = lineTotal.Add(st)
		op, err := store.CreateOrderProduct(ctx, database.CreateOrderProductParams{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: decimalToNumeric(line.UnitPrice),
			SubTotal:  decimalToNumeric(st),
		})
		if err != nil {
			return nil, fmt.Errorf("create order line %s: %w", line.ProductID, err)
		}
		lines = append(lines, op)

		if _, err := store.UpdateProductStock(ctx, database.UpdateProductStockParams{
			ID:            line.ProductID,
			StockQuantity: line.StockSnapshot - line.Quantity,
		}); err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
	}

	if _, err := store.CreateOrderVision(ctx, visionParams(order.ID, req.Vision)); err != nil {
		return nil, fmt.Errorf("create order vision: %w", err)
	}
	if _, err := store.CreateOrderTreatment(ctx, treatmentParams(order.ID, req.Treatment)); err != nil {
		return nil, fmt.Errorf("create order treatment: %w", err)
	}

	warnTotalMismatch(order.ID, lineTotal, req.Header.TotalAmount)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &OrderResult{Order: order, Lines: lines}, nil
}

// UpdateOrder reconciles the submitted line set against the persisted
// one: it fetches the current lines joined with live stock, computes the
// removed/updated/added plan, applies every stock delta and line write,
// then rewrites the order scalars and both checklists. All inside one
// transaction.
func (s *OrderService) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	persisted, err := store.ListOrderLines(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order lines: %w", err)
	}
	existing := make([]ExistingLine, 0, len(persisted))
	for _, row := range persisted {
		existing = append(existing, ExistingLine{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			LiveStock: row.StockQuantity,
		})
	}

	plan := BuildPlan(existing, req.Lines)

	for _, rm := range plan.Removed {
		if _, err := store.UpdateProductStock(ctx, database.UpdateProductStockParams{
			ID:            rm.ProductID,
			StockQuantity: rm.NewStock,
		}); err != nil {
			return nil, fmt.Errorf("restore stock for removed %s: %w", rm.ProductID, err)
		}
		if err := store.DeleteOrderProduct(ctx, database.DeleteOrderProductParams{
			OrderID:   req.OrderID,
			ProductID: rm.ProductID,
		}); err != nil {
			return nil, fmt.Errorf("delete removed line %s: %w", rm.ProductID, err)
		}
	}

	var lines []database.OrderProduct
	for _, up := range plan.Updated {
		if _, err := store.UpdateProductStock(ctx, database.UpdateProductStockParams{
			ID:            up.ProductID,
			StockQuantity: up.NewStock,
		}); err != nil {
			return nil, fmt.Errorf("adjust stock for kept %s: %w", up.ProductID, err)
		}
		op, err := store.UpdateOrderProduct(ctx, database.UpdateOrderProductParams{
			OrderID:   req.OrderID,
			ProductID: up.ProductID,
			Quantity:  up.Quantity,
			UnitPrice: decimalToNumeric(up.UnitPrice),
			SubTotal:  decimalToNumeric(up.SubTotal),
		})
		if err != nil {
			return nil, fmt.Errorf("update kept line %s: %w", up.ProductID, err)
		}
		lines = append(lines, op)
	}

	for _, add := range plan.Added {
		if _, err := store.UpdateProductStock(ctx, database.UpdateProductStockParams{
			ID:            add.ProductID,
			StockQuantity: add.NewStock,
		}); err != nil {
			return nil, fmt.Errorf("decrement stock for added %s: %w", add.ProductID, err)
		}
		op, err := store.CreateOrderProduct(ctx, database.CreateOrderProductParams{
			OrderID:   req.OrderID,
			ProductID: add.ProductID,
			Quantity:  add.Quantity,
			UnitPrice: decimalToNumeric(add.UnitPrice),
			SubTotal:  decimalToNumeric(add.SubTotal),
		})
		if err != nil {
			return nil, fmt.Errorf("insert added line %s: %w", add.ProductID, err)
		}
		lines = append(lines, op)
	}

	req.Header.ID = req.OrderID
	order, err := store.UpdateOrder(ctx, req.Header)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}

	if _, err := store.UpdateOrderVision(ctx, database.UpdateOrderVisionParams{
		OrderID:         req.OrderID,
		FarSightedness:  req.Vision.FarSightedness,
		NearSightedness: req.Vision.NearSightedness,
		Progressive:     req.Vision.Progressive,
		Solar:           req.Vision.Solar,
	}); err != nil {
		return nil, fmt.Errorf("update order vision: %w", err)
	}
	if _, err := store.UpdateOrderTreatment(ctx, database.UpdateOrderTreatmentParams{
		OrderID:       req.OrderID,
		White:         req.Treatment.White,
		AntiBlueLight: req.Treatment.AntiBlueLight,
		AntiReflexion: req.Treatment.AntiReflexion,
		Degraded:      req.Treatment.Degraded,
		Polarized:     req.Treatment.Polarized,
		Mirrored:      req.Treatment.Mirrored,
		Transitions:   req.Treatment.Transitions,
		UniColor:      req.Treatment.UniColor,
	}); err != nil {
		return nil, fmt.Errorf("update order treatment: %w", err)
	}

	warnTotalMismatch(req.OrderID, plan.LineTotal(), req.Header.TotalAmount)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &OrderResult{Order: order, Lines: lines}, nil
}

// DeleteOrder restores stock for every line, then removes the order row;
// line items and checklists cascade.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	lines, err := store.ListOrderLines(ctx, orderID)
	if err != nil {
		return fmt.Errorf("fetch order lines: %w", err)
	}
	for _, line := range lines {
		if _, err := store.UpdateProductStock(ctx, database.UpdateProductStockParams{
			ID:            line.ProductID,
			StockQuantity: line.StockQuantity + line.Quantity,
		}); err != nil {
			return fmt.Errorf("restore stock for %s: %w", line.ProductID, err)
		}
	}

	if _, err := store.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}

	return tx.Commit(ctx)
}

// warnTotalMismatch flags a stored total that disagrees with the line
// sum. The submitted total stays authoritative; see DESIGN.md.
func warnTotalMismatch(orderID uuid.UUID, lineTotal decimal.Decimal, stored pgtype.Numeric) {
	storedTotal := numericToDecimal(stored)
	if !storedTotal.Equal(lineTotal) {
		log.Printf("order %s: submitted total %s differs from line sum %s",
			orderID, storedTotal.StringFixed(2), lineTotal.StringFixed(2))
	}
}

// --- Helpers ---

func visionParams(orderID uuid.UUID, v VisionFlags) database.CreateOrderVisionParams {
	return database.CreateOrderVisionParams{
		OrderID:         orderID,
		FarSightedness:  v.FarSightedness,
		NearSightedness: v.NearSightedness,
		Progressive:     v.Progressive,
		Solar:           v.Solar,
	}
}

func treatmentParams(orderID uuid.UUID, t TreatmentFlags) database.CreateOrderTreatmentParams {
	return database.CreateOrderTreatmentParams{
		OrderID:       orderID,
		White:         t.White,
		AntiBlueLight: t.AntiBlueLight,
		AntiReflexion: t.AntiReflexion,
		Degraded:      t.Degraded,
		Polarized:     t.Polarized,
		Mirrored:      t.Mirrored,
		Transitions:   t.Transitions,
		UniColor:      t.UniColor,
	}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
