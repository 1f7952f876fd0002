package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/optique-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	m.committed = true
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error {
	m.rolledBack = true
	return m.rollbackErr
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockOrderStore implements OrderStore with configurable behavior.
type mockOrderStore struct {
	createOrderFn          func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	updateOrderFn          func(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	deleteOrderFn          func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	listOrderLinesFn       func(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderLinesRow, error)
	createOrderProductFn   func(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error)
	updateOrderProductFn   func(ctx context.Context, arg database.UpdateOrderProductParams) (database.OrderProduct, error)
	deleteOrderProductFn   func(ctx context.Context, arg database.DeleteOrderProductParams) error
	updateProductStockFn   func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error)
	createOrderVisionFn    func(ctx context.Context, arg database.CreateOrderVisionParams) (database.OrderVision, error)
	updateOrderVisionFn    func(ctx context.Context, arg database.UpdateOrderVisionParams) (database.OrderVision, error)
	createOrderTreatmentFn func(ctx context.Context, arg database.CreateOrderTreatmentParams) (database.OrderTreatment, error)
	updateOrderTreatmentFn func(ctx context.Context, arg database.UpdateOrderTreatmentParams) (database.OrderTreatment, error)
}

func (m *mockOrderStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockOrderStore) UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error) {
	return m.updateOrderFn(ctx, arg)
}
func (m *mockOrderStore) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return m.deleteOrderFn(ctx, id)
}
func (m *mockOrderStore) ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderLinesRow, error) {
	return m.listOrderLinesFn(ctx, orderID)
}
func (m *mockOrderStore) CreateOrderProduct(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error) {
	return m.createOrderProductFn(ctx, arg)
}
func (m *mockOrderStore) UpdateOrderProduct(ctx context.Context, arg database.UpdateOrderProductParams) (database.OrderProduct, error) {
	return m.updateOrderProductFn(ctx, arg)
}
func (m *mockOrderStore) DeleteOrderProduct(ctx context.Context, arg database.DeleteOrderProductParams) error {
	return m.deleteOrderProductFn(ctx, arg)
}
func (m *mockOrderStore) UpdateProductStock(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
	return m.updateProductStockFn(ctx, arg)
}
func (m *mockOrderStore) CreateOrderVision(ctx context.Context, arg database.CreateOrderVisionParams) (database.OrderVision, error) {
	return m.createOrderVisionFn(ctx, arg)
}
func (m *mockOrderStore) UpdateOrderVision(ctx context.Context, arg database.UpdateOrderVisionParams) (database.OrderVision, error) {
	return m.updateOrderVisionFn(ctx, arg)
}
func (m *mockOrderStore) CreateOrderTreatment(ctx context.Context, arg database.CreateOrderTreatmentParams) (database.OrderTreatment, error) {
	return m.createOrderTreatmentFn(ctx, arg)
}
func (m *mockOrderStore) UpdateOrderTreatment(ctx context.Context, arg database.UpdateOrderTreatmentParams) (database.OrderTreatment, error) {
	return m.updateOrderTreatmentFn(ctx, arg)
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// newTestService creates an OrderService with mocked dependencies.
// store is the mock OrderStore that will be returned by the NewOrderStore factory.
func newTestService(store *mockOrderStore) (*OrderService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) OrderStore { return store }
	return NewOrderService(pool, newStore), tx
}

// defaultStore returns a mockOrderStore whose writes succeed and echo
// their arguments back. Individual tests override the functions they
// care about.
func defaultStore() *mockOrderStore {
	return &mockOrderStore{
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			return database.Order{
				ID:          uuid.New(),
				ClientID:    arg.ClientID,
				GlassType:   arg.GlassType,
				TotalAmount: arg.TotalAmount,
				Status:      arg.Status,
			}, nil
		},
		updateOrderFn: func(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error) {
			return database.Order{
				ID:          arg.ID,
				GlassType:   arg.GlassType,
				TotalAmount: arg.TotalAmount,
				Status:      arg.Status,
			}, nil
		},
		deleteOrderFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			return id, nil
		},
		listOrderLinesFn: func(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderLinesRow, error) {
			return nil, nil
		},
		createOrderProductFn: func(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error) {
			return database.OrderProduct{
				OrderID:   arg.OrderID,
				ProductID: arg.ProductID,
				Quantity:  arg.Quantity,
				UnitPrice: arg.UnitPrice,
				SubTotal:  arg.SubTotal,
			}, nil
		},
		updateOrderProductFn: func(ctx context.Context, arg database.UpdateOrderProductParams) (database.OrderProduct, error) {
			return database.OrderProduct{
				OrderID:   arg.OrderID,
				ProductID: arg.ProductID,
				Quantity:  arg.Quantity,
				UnitPrice: arg.UnitPrice,
				SubTotal:  arg.SubTotal,
			}, nil
		},
		deleteOrderProductFn: func(ctx context.Context, arg database.DeleteOrderProductParams) error {
			return nil
		},
		updateProductStockFn: func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
			return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
		},
		createOrderVisionFn: func(ctx context.Context, arg database.CreateOrderVisionParams) (database.OrderVision, error) {
			return database.OrderVision{OrderID: arg.OrderID}, nil
		},
		updateOrderVisionFn: func(ctx context.Context, arg database.UpdateOrderVisionParams) (database.OrderVision, error) {
			return database.OrderVision{OrderID: arg.OrderID}, nil
		},
		createOrderTreatmentFn: func(ctx context.Context, arg database.CreateOrderTreatmentParams) (database.OrderTreatment, error) {
			return database.OrderTreatment{OrderID: arg.OrderID}, nil
		},
		updateOrderTreatmentFn: func(ctx context.Context, arg database.UpdateOrderTreatmentParams) (database.OrderTreatment, error) {
			return database.OrderTreatment{OrderID: arg.OrderID}, nil
		},
	}
}

// =====================
// BuildPlan tests
// =====================

func TestBuildPlan_AddedLine(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(nil, []OrderLine{
		{ProductID: productID, Quantity: 2, UnitPrice: dec("10.00"), StockSnapshot: 5},
	})

	if len(plan.Removed) != 0 || len(plan.Updated) != 0 || len(plan.Added) != 1 {
		t.Fatalf("plan partitioning: removed=%d updated=%d added=%d", len(plan.Removed), len(plan.Updated), len(plan.Added))
	}
	added := plan.Added[0]
	// stock charged against the snapshot: 5 - 2 = 3
	if added.NewStock != 3 {
		t.Errorf("added new stock: got %d, want 3", added.NewStock)
	}
	if !added.SubTotal.Equal(dec("20.00")) {
		t.Errorf("added sub_total: got %s, want 20.00", added.SubTotal)
	}
}

func TestBuildPlan_RemovedLineRestoresLiveStock(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(
		[]ExistingLine{{ProductID: productID, Quantity: 2, LiveStock: 3}},
		nil,
	)

	if len(plan.Removed) != 1 || len(plan.Updated) != 0 || len(plan.Added) != 0 {
		t.Fatalf("plan partitioning: removed=%d updated=%d added=%d", len(plan.Removed), len(plan.Updated), len(plan.Added))
	}
	// restore onto the live count: 3 + 2 = 5
	if plan.Removed[0].NewStock != 5 {
		t.Errorf("removed new stock: got %d, want 5", plan.Removed[0].NewStock)
	}
}

func TestBuildPlan_QuantityIncrease(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(
		[]ExistingLine{{ProductID: productID, Quantity: 2, LiveStock: 8}},
		[]OrderLine{{ProductID: productID, Quantity: 5, UnitPrice: dec("12.50"), StockSnapshot: 8}},
	)

	if len(plan.Updated) != 1 {
		t.Fatalf("expected 1 updated line, got %d", len(plan.Updated))
	}
	up := plan.Updated[0]
	// diff = old - new = 2 - 5 = -3; stock = snapshot + diff = 8 - 3 = 5
	if up.QuantityDiff != -3 {
		t.Errorf("quantity diff: got %d, want -3", up.QuantityDiff)
	}
	if up.NewStock != 5 {
		t.Errorf("updated new stock: got %d, want 5", up.NewStock)
	}
	if !up.SubTotal.Equal(dec("62.50")) {
		t.Errorf("updated sub_total: got %s, want 62.50", up.SubTotal)
	}
}

func TestBuildPlan_UnchangedLineStillRewritten(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(
		[]ExistingLine{{ProductID: productID, Quantity: 2, LiveStock: 8}},
		[]OrderLine{{ProductID: productID, Quantity: 2, UnitPrice: dec("10.00"), StockSnapshot: 8}},
	)

	// A kept line with the same quantity is still part of the plan; the
	// row is rewritten and the stock set to snapshot + 0.
	if len(plan.Updated) != 1 {
		t.Fatalf("expected 1 updated line, got %d", len(plan.Updated))
	}
	if plan.Updated[0].QuantityDiff != 0 {
		t.Errorf("quantity diff: got %d, want 0", plan.Updated[0].QuantityDiff)
	}
	if plan.Updated[0].NewStock != 8 {
		t.Errorf("new stock: got %d, want 8", plan.Updated[0].NewStock)
	}
}

func TestBuildPlan_ZeroQuantityAccepted(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(nil, []OrderLine{
		{ProductID: productID, Quantity: 0, UnitPrice: dec("10.00"), StockSnapshot: 4},
	})

	if len(plan.Added) != 1 {
		t.Fatalf("expected 1 added line, got %d", len(plan.Added))
	}
	if !plan.Added[0].SubTotal.Equal(dec("0.00")) {
		t.Errorf("sub_total for zero quantity: got %s, want 0.00", plan.Added[0].SubTotal)
	}
	if plan.Added[0].NewStock != 4 {
		t.Errorf("new stock: got %d, want 4", plan.Added[0].NewStock)
	}
}

func TestBuildPlan_StockMayGoNegative(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(nil, []OrderLine{
		{ProductID: productID, Quantity: 7, UnitPrice: dec("10.00"), StockSnapshot: 4},
	})

	// No floor: 4 - 7 = -3.
	if plan.Added[0].NewStock != -3 {
		t.Errorf("new stock: got %d, want -3", plan.Added[0].NewStock)
	}
}

func TestBuildPlan_MixedPartition(t *testing.T) {
	kept := uuid.New()
	removed := uuid.New()
	added := uuid.New()

	plan := BuildPlan(
		[]ExistingLine{
			{ProductID: kept, Quantity: 1, LiveStock: 9},
			{ProductID: removed, Quantity: 4, LiveStock: 0},
		},
		[]OrderLine{
			{ProductID: kept, Quantity: 3, UnitPrice: dec("5.00"), StockSnapshot: 9},
			{ProductID: added, Quantity: 2, UnitPrice: dec("30.00"), StockSnapshot: 6},
		},
	)

	if len(plan.Removed) != 1 || plan.Removed[0].ProductID != removed {
		t.Fatalf("expected %s removed, got %+v", removed, plan.Removed)
	}
	if plan.Removed[0].NewStock != 4 {
		t.Errorf("removed new stock: got %d, want 4", plan.Removed[0].NewStock)
	}
	if len(plan.Updated) != 1 || plan.Updated[0].ProductID != kept {
		t.Fatalf("expected %s updated, got %+v", kept, plan.Updated)
	}
	if plan.Updated[0].NewStock != 7 { // 9 + (1 - 3)
		t.Errorf("updated new stock: got %d, want 7", plan.Updated[0].NewStock)
	}
	if len(plan.Added) != 1 || plan.Added[0].ProductID != added {
		t.Fatalf("expected %s added, got %+v", added, plan.Added)
	}
	// line total covers the post-plan lines only
	if !plan.LineTotal().Equal(dec("75.00")) { // 15.00 + 60.00
		t.Errorf("line total: got %s, want 75.00", plan.LineTotal())
	}
}

func TestBuildPlan_SubTotalRounding(t *testing.T) {
	productID := uuid.New()
	plan := BuildPlan(nil, []OrderLine{
		{ProductID: productID, Quantity: 3, UnitPrice: dec("33.335"), StockSnapshot: 10},
	})

	// 3 * 33.335 = 100.005, rounded once at the plan boundary.
	if !plan.Added[0].SubTotal.Equal(dec("100.01")) {
		t.Errorf("sub_total: got %s, want 100.01", plan.Added[0].SubTotal)
	}
}

// =====================
// CreateOrder tests
// =====================

func TestCreateOrder_DecrementsStockFromSnapshot(t *testing.T) {
	productID := uuid.New()
	store := defaultStore()

	var capturedStock database.UpdateProductStockParams
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		capturedStock = arg
		return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
	}
	var capturedLine database.CreateOrderProductParams
	store.createOrderProductFn = func(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error) {
		capturedLine = arg
		return database.OrderProduct{OrderID: arg.OrderID, ProductID: arg.ProductID, Quantity: arg.Quantity, UnitPrice: arg.UnitPrice, SubTotal: arg.SubTotal}, nil
	}

	svc, tx := newTestService(store)
	result, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Header: database.CreateOrderParams{
			ClientID:    uuid.New(),
			GlassType:   "organic",
			Status:      "inProgress",
			TotalAmount: makeNumeric("20.00"),
		},
		Lines: []OrderLine{
			{ProductID: productID, Quantity: 2, UnitPrice: dec("10.00"), StockSnapshot: 5},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}

	// stock = snapshot - quantity = 5 - 2 = 3
	if capturedStock.ID != productID || capturedStock.StockQuantity != 3 {
		t.Errorf("stock write: got %+v, want {%s 3}", capturedStock, productID)
	}
	if !numericEquals(capturedLine.SubTotal, "20.00") {
		t.Errorf("line sub_total: got %v, want 20.00", numericToDecimal(capturedLine.SubTotal))
	}
	if len(result.Lines) != 1 {
		t.Errorf("result lines: got %d, want 1", len(result.Lines))
	}
}

func TestCreateOrder_WritesChecklists(t *testing.T) {
	store := defaultStore()

	var capturedVision database.CreateOrderVisionParams
	store.createOrderVisionFn = func(ctx context.Context, arg database.CreateOrderVisionParams) (database.OrderVision, error) {
		capturedVision = arg
		return database.OrderVision{OrderID: arg.OrderID}, nil
	}
	var capturedTreatment database.CreateOrderTreatmentParams
	store.createOrderTreatmentFn = func(ctx context.Context, arg database.CreateOrderTreatmentParams) (database.OrderTreatment, error) {
		capturedTreatment = arg
		return database.OrderTreatment{OrderID: arg.OrderID}, nil
	}

	svc, _ := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Header:    database.CreateOrderParams{ClientID: uuid.New(), GlassType: "mineral", Status: "inProgress"},
		Vision:    VisionFlags{Progressive: true},
		Treatment: TreatmentFlags{AntiReflexion: true, Transitions: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !capturedVision.Progressive || capturedVision.Solar {
		t.Errorf("vision flags: got %+v", capturedVision)
	}
	if !capturedTreatment.AntiReflexion || !capturedTreatment.Transitions || capturedTreatment.White {
		t.Errorf("treatment flags: got %+v", capturedTreatment)
	}
}

func TestCreateOrder_LineFailureAbortsBeforeCommit(t *testing.T) {
	store := defaultStore()
	store.createOrderProductFn = func(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error) {
		return database.OrderProduct{}, errors.New("insert failed")
	}

	svc, tx := newTestService(store)
	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Header: database.CreateOrderParams{ClientID: uuid.New(), GlassType: "mineral", Status: "inProgress"},
		Lines: []OrderLine{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("10.00"), StockSnapshot: 5},
		},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if tx.committed {
		t.Error("transaction must not commit after a line failure")
	}
	if !tx.rolledBack {
		t.Error("transaction should have been rolled back")
	}
}

// =====================
// UpdateOrder tests
// =====================

func updateReq(orderID uuid.UUID, lines []OrderLine) UpdateOrderRequest {
	return UpdateOrderRequest{
		OrderID: orderID,
		Header: database.UpdateOrderParams{
			GlassType:   "organic",
			Status:      "inProgress",
			TotalAmount: makeNumeric("0.00"),
		},
		Lines: lines,
	}
}

func TestUpdateOrder_ResubmitUnchangedIsStockNeutral(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	store := defaultStore()
	store.listOrderLinesFn = func(ctx context.Context, oid uuid.UUID) ([]database.ListOrderLinesRow, error) {
		return []database.ListOrderLinesRow{
			{OrderID: orderID, ProductID: productID, Quantity: 2, UnitPrice: makeNumeric("10.00"), SubTotal: makeNumeric("20.00"), StockQuantity: 3},
		}, nil
	}

	var stockWrites []database.UpdateProductStockParams
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		stockWrites = append(stockWrites, arg)
		return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
	}

	svc, _ := newTestService(store)
	// Resubmit the same line with the snapshot the edit form loaded (3).
	_, err := svc.UpdateOrder(context.Background(), updateReq(orderID, []OrderLine{
		{ProductID: productID, Quantity: 2, UnitPrice: dec("10.00"), StockSnapshot: 3},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The line is rewritten but the stock lands back on the snapshot.
	if len(stockWrites) != 1 {
		t.Fatalf("stock writes: got %d, want 1", len(stockWrites))
	}
	if stockWrites[0].StockQuantity != 3 {
		t.Errorf("resubmitted stock: got %d, want 3", stockWrites[0].StockQuantity)
	}
}

func TestUpdateOrder_RemovedLineDeletedAndStockRestored(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	store := defaultStore()
	store.listOrderLinesFn = func(ctx context.Context, oid uuid.UUID) ([]database.ListOrderLinesRow, error) {
		return []database.ListOrderLinesRow{
			{OrderID: orderID, ProductID: productID, Quantity: 2, UnitPrice: makeNumeric("10.00"), SubTotal: makeNumeric("20.00"), StockQuantity: 3},
		}, nil
	}

	var capturedStock database.UpdateProductStockParams
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		capturedStock = arg
		return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
	}
	var capturedDelete database.DeleteOrderProductParams
	deleteCalls := 0
	store.deleteOrderProductFn = func(ctx context.Context, arg database.DeleteOrderProductParams) error {
		deleteCalls++
		capturedDelete = arg
		return nil
	}

	svc, _ := newTestService(store)
	_, err := svc.UpdateOrder(context.Background(), updateReq(orderID, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// stock back to live + old quantity: 3 + 2 = 5
	if capturedStock.StockQuantity != 5 {
		t.Errorf("restored stock: got %d, want 5", capturedStock.StockQuantity)
	}
	// exactly one delete, keyed by order and product
	if deleteCalls != 1 {
		t.Fatalf("delete calls: got %d, want 1", deleteCalls)
	}
	if capturedDelete.OrderID != orderID || capturedDelete.ProductID != productID {
		t.Errorf("delete keyed wrong: got %+v", capturedDelete)
	}
}

func TestUpdateOrder_QuantityChangeAdjustsAgainstSnapshot(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	store := defaultStore()
	store.listOrderLinesFn = func(ctx context.Context, oid uuid.UUID) ([]database.ListOrderLinesRow, error) {
		return []database.ListOrderLinesRow{
			{OrderID: orderID, ProductID: productID, Quantity: 2, UnitPrice: makeNumeric("10.00"), SubTotal: makeNumeric("20.00"), StockQuantity: 8},
		}, nil
	}

	var capturedStock database.UpdateProductStockParams
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		capturedStock = arg
		return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
	}
	var capturedLine database.UpdateOrderProductParams
	store.updateOrderProductFn = func(ctx context.Context, arg database.UpdateOrderProductParams) (database.OrderProduct, error) {
		capturedLine = arg
		return database.OrderProduct{OrderID: arg.OrderID, ProductID: arg.ProductID, Quantity: arg.Quantity, UnitPrice: arg.UnitPrice, SubTotal: arg.SubTotal}, nil
	}

	svc, _ := newTestService(store)
	_, err := svc.UpdateOrder(context.Background(), updateReq(orderID, []OrderLine{
		{ProductID: productID, Quantity: 5, UnitPrice: dec("10.00"), StockSnapshot: 8},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// snapshot 8, diff 2-5 = -3, stock = 5
	if capturedStock.StockQuantity != 5 {
		t.Errorf("adjusted stock: got %d, want 5", capturedStock.StockQuantity)
	}
	if capturedLine.Quantity != 5 || !numericEquals(capturedLine.SubTotal, "50.00") {
		t.Errorf("rewritten line: got qty=%d sub_total=%v", capturedLine.Quantity, numericToDecimal(capturedLine.SubTotal))
	}
}

func TestUpdateOrder_AddedLineInsertedAndCharged(t *testing.T) {
	orderID := uuid.New()
	newProduct := uuid.New()
	store := defaultStore()
	store.listOrderLinesFn = func(ctx context.Context, oid uuid.UUID) ([]database.ListOrderLinesRow, error) {
		return nil, nil
	}

	var capturedStock database.UpdateProductStockParams
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		capturedStock = arg
		return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
	}
	var capturedLine database.CreateOrderProductParams
	store.createOrderProductFn = func(ctx context.Context, arg database.CreateOrderProductParams) (database.OrderProduct, error) {
		capturedLine = arg
		return database.OrderProduct{OrderID: arg.OrderID, ProductID: arg.ProductID, Quantity: arg.Quantity, UnitPrice: arg.UnitPrice, SubTotal: arg.SubTotal}, nil
	}

	svc, _ := newTestService(store)
	_, err := svc.UpdateOrder(context.Background(), updateReq(orderID, []OrderLine{
		{ProductID: newProduct, Quantity: 2, UnitPrice: dec("10.00"), StockSnapshot: 5},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capturedStock.ID != newProduct || capturedStock.StockQuantity != 3 {
		t.Errorf("stock write: got %+v, want {%s 3}", capturedStock, newProduct)
	}
	if capturedLine.OrderID != orderID || !numericEquals(capturedLine.SubTotal, "20.00") {
		t.Errorf("inserted line: got %+v", capturedLine)
	}
}

func TestUpdateOrder_HeaderKeyedByOrderID(t *testing.T) {
	orderID := uuid.New()
	store := defaultStore()

	var capturedHeader database.UpdateOrderParams
	store.updateOrderFn = func(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error) {
		capturedHeader = arg
		return database.Order{ID: arg.ID, GlassType: arg.GlassType, Status: arg.Status}, nil
	}

	svc, _ := newTestService(store)
	_, err := svc.UpdateOrder(context.Background(), updateReq(orderID, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedHeader.ID != orderID {
		t.Errorf("header id: got %s, want %s", capturedHeader.ID, orderID)
	}
}

func TestUpdateOrder_NotFound(t *testing.T) {
	store := defaultStore()
	store.updateOrderFn = func(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error) {
		return database.Order{}, pgx.ErrNoRows
	}

	svc, tx := newTestService(store)
	_, err := svc.UpdateOrder(context.Background(), updateReq(uuid.New(), nil))
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
	if tx.committed {
		t.Error("transaction must not commit when the order is missing")
	}
}

func TestUpdateOrder_StockFailureAbortsBeforeCommit(t *testing.T) {
	orderID := uuid.New()
	productID := uuid.New()
	store := defaultStore()
	store.listOrderLinesFn = func(ctx context.Context, oid uuid.UUID) ([]database.ListOrderLinesRow, error) {
		return []database.ListOrderLinesRow{
			{OrderID: orderID, ProductID: productID, Quantity: 2, UnitPrice: makeNumeric("10.00"), SubTotal: makeNumeric("20.00"), StockQuantity: 3},
		}, nil
	}
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		return database.Product{}, errors.New("stock write failed")
	}

	svc, tx := newTestService(store)
	_, err := svc.UpdateOrder(context.Background(), updateReq(orderID, nil))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if tx.committed {
		t.Error("transaction must not commit after a stock failure")
	}
}

// =====================
// DeleteOrder tests
// =====================

func TestDeleteOrder_RestoresStockForEveryLine(t *testing.T) {
	orderID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	store := defaultStore()
	store.listOrderLinesFn = func(ctx context.Context, oid uuid.UUID) ([]database.ListOrderLinesRow, error) {
		return []database.ListOrderLinesRow{
			{OrderID: orderID, ProductID: productA, Quantity: 2, StockQuantity: 3},
			{OrderID: orderID, ProductID: productB, Quantity: 1, StockQuantity: 0},
		}, nil
	}

	stockByProduct := map[uuid.UUID]int32{}
	store.updateProductStockFn = func(ctx context.Context, arg database.UpdateProductStockParams) (database.Product, error) {
		stockByProduct[arg.ID] = arg.StockQuantity
		return database.Product{ID: arg.ID, StockQuantity: arg.StockQuantity}, nil
	}

	svc, tx := newTestService(store)
	if err := svc.DeleteOrder(context.Background(), orderID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}

	if stockByProduct[productA] != 5 {
		t.Errorf("productA stock: got %d, want 5", stockByProduct[productA])
	}
	if stockByProduct[productB] != 1 {
		t.Errorf("productB stock: got %d, want 1", stockByProduct[productB])
	}
}

func TestDeleteOrder_NotFound(t *testing.T) {
	store := defaultStore()
	store.deleteOrderFn = func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
		return uuid.Nil, pgx.ErrNoRows
	}

	svc, _ := newTestService(store)
	err := svc.DeleteOrder(context.Background(), uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}
