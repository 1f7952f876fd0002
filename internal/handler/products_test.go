package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/optique-pos/api/internal/database"
	"github.com/optique-pos/api/internal/handler"
)

// --- Mock store ---

type mockProductStore struct {
	products     map[uuid.UUID]database.Product
	duplicateRef bool // simulate unique violation on reference
	referenced   bool // simulate FK violation on delete
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{products: make(map[uuid.UUID]database.Product)}
}

func (m *mockProductStore) ListProducts(_ context.Context, arg database.ListProductsParams) ([]database.Product, error) {
	var result []database.Product
	for _, p := range m.products {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockProductStore) ListAvailableProducts(_ context.Context) ([]database.Product, error) {
	var result []database.Product
	for _, p := range m.products {
		if p.StockQuantity > 0 {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProductStore) GetProduct(_ context.Context, id uuid.UUID) (database.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return database.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProductStore) CreateProduct(_ context.Context, arg database.CreateProductParams) (database.Product, error) {
	if m.duplicateRef {
		return database.Product{}, &pgconn.PgError{Code: "23505"}
	}
	now := time.Now()
	p := database.Product{
		ID:            uuid.New(),
		Reference:     arg.Reference,
		Name:          arg.Name,
		Type:          arg.Type,
		Brand:         arg.Brand,
		Color:         arg.Color,
		Category:      arg.Category,
		PurchasePrice: arg.PurchasePrice,
		SellingPrice:  arg.SellingPrice,
		StockQuantity: arg.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) UpdateProduct(_ context.Context, arg database.UpdateProductParams) (database.Product, error) {
	p, ok := m.products[arg.ID]
	if !ok {
		return database.Product{}, pgx.ErrNoRows
	}
	p.Reference = arg.Reference
	p.Name = arg.Name
	p.Type = arg.Type
	p.Brand = arg.Brand
	p.Color = arg.Color
	p.Category = arg.Category
	p.PurchasePrice = arg.PurchasePrice
	p.SellingPrice = arg.SellingPrice
	p.StockQuantity = arg.StockQuantity
	p.UpdatedAt = time.Now()
	m.products[p.ID] = p
	return p, nil
}

func (m *mockProductStore) DeleteProduct(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if m.referenced {
		return uuid.Nil, &pgconn.PgError{Code: "23503"}
	}
	if _, ok := m.products[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.products, id)
	return id, nil
}

// --- Helpers ---

func setupProductRouter(store *mockProductStore) *chi.Mux {
	h := handler.NewProductHandler(store)
	r := chi.NewRouter()
	r.Route("/products", h.RegisterRoutes)
	return r
}

func seedProduct(store *mockProductStore, stock int32) database.Product {
	p := database.Product{
		ID:            uuid.New(),
		Reference:     "REF-001",
		Name:          "Ray-Ban RB3025",
		PurchasePrice: testNumeric("80.00"),
		SellingPrice:  testNumeric("120.00"),
		StockQuantity: stock,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	store.products[p.ID] = p
	return p
}

// --- Tests ---

func TestProductCreate(t *testing.T) {
	store := newMockProductStore()
	router := setupProductRouter(store)

	rr := doRequest(t, router, "POST", "/products", map[string]interface{}{
		"reference":      "REF-100",
		"name":           "Essilor Varilux",
		"type":           "lens",
		"brand":          "Essilor",
		"purchase_price": "45.00",
		"selling_price":  "95.00",
		"stock_quantity": 12,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["reference"] != "REF-100" {
		t.Errorf("reference: got %v", resp["reference"])
	}
	if resp["selling_price"] != "95.00" {
		t.Errorf("selling_price: got %v, want 95.00", resp["selling_price"])
	}
}

func TestProductCreate_MissingReference(t *testing.T) {
	store := newMockProductStore()
	router := setupProductRouter(store)

	rr := doRequest(t, router, "POST", "/products", map[string]interface{}{
		"name": "Essilor Varilux",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProductCreate_DuplicateReference(t *testing.T) {
	store := newMockProductStore()
	store.duplicateRef = true
	router := setupProductRouter(store)

	rr := doRequest(t, router, "POST", "/products", map[string]interface{}{
		"reference":      "REF-001",
		"name":           "Duplicate",
		"purchase_price": "10.00",
		"selling_price":  "20.00",
	})

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestProductListAvailable_FiltersOutOfStock(t *testing.T) {
	store := newMockProductStore()
	seedProduct(store, 3)
	depleted := seedProduct(store, 0)
	router := setupProductRouter(store)

	rr := doRequest(t, router, "GET", "/products/available", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("available products: got %d, want 1", len(resp))
	}
	if resp[0]["id"] == depleted.ID.String() {
		t.Error("depleted product must not be listed as available")
	}
}

func TestProductUpdate(t *testing.T) {
	store := newMockProductStore()
	p := seedProduct(store, 5)
	router := setupProductRouter(store)

	rr := doRequest(t, router, "PUT", "/products/"+p.ID.String(), map[string]interface{}{
		"reference":      p.Reference,
		"name":           p.Name,
		"purchase_price": "80.00",
		"selling_price":  "110.00",
		"stock_quantity": 7,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if store.products[p.ID].StockQuantity != 7 {
		t.Errorf("stock: got %d, want 7", store.products[p.ID].StockQuantity)
	}
}

func TestProductDelete_Referenced(t *testing.T) {
	store := newMockProductStore()
	p := seedProduct(store, 5)
	store.referenced = true
	router := setupProductRouter(store)

	rr := doRequest(t, router, "DELETE", "/products/"+p.ID.String(), nil)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestProductDelete(t *testing.T) {
	store := newMockProductStore()
	p := seedProduct(store, 5)
	router := setupProductRouter(store)

	rr := doRequest(t, router, "DELETE", "/products/"+p.ID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if len(store.products) != 0 {
		t.Error("product should be gone")
	}
}
