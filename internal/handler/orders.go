package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/optique-pos/api/internal/database"
	"github.com/optique-pos/api/internal/enum"
	"github.com/optique-pos/api/internal/invoice"
	"github.com/optique-pos/api/internal/service"
	"github.com/optique-pos/api/internal/ws"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	UpdateOrder(ctx context.Context, req service.UpdateOrderRequest) (*service.OrderResult, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.ListOrdersRow, error)
	ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderLinesRow, error)
	GetOrderVision(ctx context.Context, orderID uuid.UUID) (database.OrderVision, error)
	GetOrderTreatment(ctx context.Context, orderID uuid.UUID) (database.OrderTreatment, error)
	GetClient(ctx context.Context, id uuid.UUID) (database.Client, error)
}

// InvoiceRenderer produces a printable PDF for a joined order record.
// Satisfied by *invoice.Renderer.
type InvoiceRenderer interface {
	Render(ctx context.Context, data invoice.Data) ([]byte, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc      OrderServicer
	store    OrderStore
	renderer InvoiceRenderer
	hub      *ws.Hub
}

// NewOrderHandler creates a new OrderHandler. hub may be nil in tests.
func NewOrderHandler(svc OrderServicer, store OrderStore, renderer InvoiceRenderer, hub *ws.Hub) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, renderer: renderer, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/invoice", h.Invoice)
	})
}

// --- Request / Response types ---

type eyeRequest struct {
	Sph       string `json:"sph"`
	Cyl       string `json:"cyl"`
	Axis      string `json:"axis"`
	Add       string `json:"add"`
	Ep        string `json:"ep"`
	Hp        string `json:"hp"`
	Prism     string `json:"prism"`
	PrismAxis string `json:"prism_axis"`
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	// StockQuantity is the stock snapshot the form was loaded with; the
	// reconciliation adjusts against it, not the live value.
	StockQuantity int32 `json:"stock_quantity"`
}

type visionRequest struct {
	FarSightedness  bool `json:"far_sightedness"`
	NearSightedness bool `json:"near_sightedness"`
	Progressive     bool `json:"progressive"`
	Solar           bool `json:"solar"`
}

type treatmentRequest struct {
	White         bool `json:"white"`
	AntiBlueLight bool `json:"anti_blue_light"`
	AntiReflexion bool `json:"anti_reflexion"`
	Degraded      bool `json:"degraded"`
	Polarized     bool `json:"polarized"`
	Mirrored      bool `json:"mirrored"`
	Transitions   bool `json:"transitions"`
	UniColor      bool `json:"uni_color"`
}

type orderRequest struct {
	OrderDate      string             `json:"order_date"`
	DeliveryDate   string             `json:"delivery_date"`
	ClientID       string             `json:"client_id"`
	DoctorID       string             `json:"doctor_id"`
	SocialSecurity bool               `json:"social_security"`
	LeftEye        eyeRequest         `json:"left_eye"`
	RightEye       eyeRequest         `json:"right_eye"`
	GlassType      string             `json:"glass_type"`
	GlassIndex     string             `json:"glass_index"`
	TotalAmount    string             `json:"total_amount"`
	Status         string             `json:"status"`
	Products       []orderLineRequest `json:"products"`
	Vision         visionRequest      `json:"vision"`
	Treatment      treatmentRequest   `json:"treatment"`
}

type orderLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int32     `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	SubTotal  string    `json:"sub_total"`
}

type orderLineDetailResponse struct {
	orderLineResponse
	ProductName   string `json:"product_name"`
	StockQuantity int32  `json:"stock_quantity"`
	SellingPrice  string `json:"selling_price"`
}

type eyeResponse struct {
	Sph       string `json:"sph"`
	Cyl       string `json:"cyl"`
	Axis      string `json:"axis"`
	Add       string `json:"add"`
	Ep        string `json:"ep"`
	Hp        string `json:"hp"`
	Prism     string `json:"prism"`
	PrismAxis string `json:"prism_axis"`
}

type orderResponse struct {
	ID             uuid.UUID   `json:"id"`
	OrderDate      time.Time   `json:"order_date"`
	DeliveryDate   *string     `json:"delivery_date"`
	ClientID       uuid.UUID   `json:"client_id"`
	DoctorID       *uuid.UUID  `json:"doctor_id"`
	SocialSecurity bool        `json:"social_security"`
	LeftEye        eyeResponse `json:"left_eye"`
	RightEye       eyeResponse `json:"right_eye"`
	GlassType      string      `json:"glass_type"`
	GlassIndex     string      `json:"glass_index"`
	TotalAmount    string      `json:"total_amount"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type orderListItemResponse struct {
	orderResponse
	ClientName string  `json:"client_name"`
	DoctorName *string `json:"doctor_name"`
}

type orderDetailResponse struct {
	orderResponse
	Lines     []orderLineDetailResponse `json:"products"`
	Vision    visionRequest             `json:"vision"`
	Treatment treatmentRequest          `json:"treatment"`
}

func toEyeResponse(sph, cyl, axis, add, ep, hp, prism, prismAxis pgtype.Numeric) eyeResponse {
	return eyeResponse{
		Sph:       numericToString(sph),
		Cyl:       numericToString(cyl),
		Axis:      numericToString(axis),
		Add:       numericToString(add),
		Ep:        numericToString(ep),
		Hp:        numericToString(hp),
		Prism:     numericToString(prism),
		PrismAxis: numericToString(prismAxis),
	}
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		OrderDate:      o.OrderDate,
		ClientID:       o.ClientID,
		SocialSecurity: o.SocialSecurity,
		LeftEye:        toEyeResponse(o.LeftSph, o.LeftCyl, o.LeftAxis, o.LeftAdd, o.LeftEp, o.LeftHp, o.LeftPrism, o.LeftPrismAxis),
		RightEye:       toEyeResponse(o.RightSph, o.RightCyl, o.RightAxis, o.RightAdd, o.RightEp, o.RightHp, o.RightPrism, o.RightPrismAxis),
		GlassType:      o.GlassType,
		GlassIndex:     numericToString(o.GlassIndex),
		TotalAmount:    numericToString(o.TotalAmount),
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.DeliveryDate.Valid {
		s := o.DeliveryDate.Time.Format("2006-01-02")
		resp.DeliveryDate = &s
	}
	if o.DoctorID.Valid {
		id := uuid.UUID(o.DoctorID.Bytes)
		resp.DoctorID = &id
	}
	return resp
}

// --- Request parsing ---

func parseEye(req eyeRequest) (database.EyeMeasurements, error) {
	var m database.EyeMeasurements
	var err error
	if m.Sph, err = numericFromString(req.Sph); err != nil {
		return m, fmt.Errorf("sph: %w", err)
	}
	if m.Cyl, err = numericFromString(req.Cyl); err != nil {
		return m, fmt.Errorf("cyl: %w", err)
	}
	if m.Axis, err = numericFromString(req.Axis); err != nil {
		return m, fmt.Errorf("axis: %w", err)
	}
	if m.Add, err = numericFromString(req.Add); err != nil {
		return m, fmt.Errorf("add: %w", err)
	}
	if m.Ep, err = numericFromString(req.Ep); err != nil {
		return m, fmt.Errorf("ep: %w", err)
	}
	if m.Hp, err = numericFromString(req.Hp); err != nil {
		return m, fmt.Errorf("hp: %w", err)
	}
	if m.Prism, err = numericFromString(req.Prism); err != nil {
		return m, fmt.Errorf("prism: %w", err)
	}
	if m.PrismAxis, err = numericFromString(req.PrismAxis); err != nil {
		return m, fmt.Errorf("prism_axis: %w", err)
	}
	return m, nil
}

func parseLines(reqs []orderLineRequest) ([]service.OrderLine, string) {
	lines := make([]service.OrderLine, 0, len(reqs))
	for i, lr := range reqs {
		productID, err := uuid.Parse(lr.ProductID)
		if err != nil {
			return nil, fmt.Sprintf("products[%d]: invalid product_id", i)
		}
		price, err := decimal.NewFromString(lr.UnitPrice)
		if err != nil {
			return nil, fmt.Sprintf("products[%d]: invalid unit_price", i)
		}
		lines = append(lines, service.OrderLine{
			ProductID:     productID,
			Quantity:      lr.Quantity,
			UnitPrice:     price,
			StockSnapshot: lr.StockQuantity,
		})
	}
	return lines, ""
}

func isValidStatus(s string) bool {
	return s == enum.OrderStatusInProgress || s == enum.OrderStatusDelivered
}

func isValidGlassType(s string) bool {
	switch s {
	case enum.GlassTypeMineral, enum.GlassTypeOrganic, enum.GlassTypePolycarbonate:
		return true
	}
	return false
}

// parseOrderScalars validates the shared header fields and converts them
// to query params. The returned message is empty on success.
func parseOrderScalars(req orderRequest) (database.CreateOrderParams, string) {
	var params database.CreateOrderParams

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return params, "invalid client_id"
	}
	params.ClientID = clientID

	if req.DoctorID != "" {
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			return params, "invalid doctor_id"
		}
		params.DoctorID = pgtype.UUID{Bytes: doctorID, Valid: true}
	}

	if req.DeliveryDate != "" {
		t, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			return params, "invalid delivery_date"
		}
		params.DeliveryDate = pgtype.Date{Time: t, Valid: true}
	}

	status := req.Status
	if status == "" {
		status = enum.OrderStatusInProgress
	}
	if !isValidStatus(status) {
		return params, "invalid status"
	}
	params.Status = status

	glassType := req.GlassType
	if glassType == "" {
		glassType = enum.GlassTypeMineral
	}
	if !isValidGlassType(glassType) {
		return params, "invalid glass_type"
	}
	params.GlassType = glassType

	if params.GlassIndex, err = numericFromString(req.GlassIndex); err != nil {
		return params, "invalid glass_index"
	}
	if params.TotalAmount, err = numericFromString(req.TotalAmount); err != nil {
		return params, "invalid total_amount"
	}
	if params.LeftEye, err = parseEye(req.LeftEye); err != nil {
		return params, "invalid left_eye: " + err.Error()
	}
	if params.RightEye, err = parseEye(req.RightEye); err != nil {
		return params, "invalid right_eye: " + err.Error()
	}

	params.SocialSecurity = req.SocialSecurity
	return params, ""
}

// --- Handlers ---

// Create handles POST /orders. New orders need no reconciliation: every
// line is inserted and every referenced product's stock decremented.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, msg := parseOrderScalars(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	params.OrderDate = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	if req.OrderDate != "" {
		t, err := time.Parse(time.RFC3339, req.OrderDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_date"})
			return
		}
		params.OrderDate = pgtype.Timestamptz{Time: t, Valid: true}
	}

	lines, msg := parseLines(req.Products)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		Header:    params,
		Lines:     lines,
		Vision:    service.VisionFlags(req.Vision),
		Treatment: service.TreatmentFlags(req.Treatment),
	})
	if err != nil {
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast("order.created", result.Order.ID)
	writeJSON(w, http.StatusCreated, toOrderResponse(result.Order))
}

// List handles GET /orders, newest order date first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	rows, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderListItemResponse, len(rows))
	for i, row := range rows {
		item := orderListItemResponse{
			orderResponse: toOrderResponse(row.Order),
			ClientName:    row.ClientFirstName + " " + row.ClientLastName,
		}
		if row.DoctorFirstName.Valid {
			name := "Dr. " + row.DoctorFirstName.String + " " + row.DoctorLastName.String
			item.DoctorName = &name
		}
		resp[i] = item
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id} with full line, vision, and treatment
// detail, which the edit form needs.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	detail, err := h.orderDetail(r.Context(), order)
	if err != nil {
		log.Printf("ERROR: get order detail: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Update handles PUT /orders/{id}: the reconciliation path.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, msg := parseOrderScalars(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	lines, msg := parseLines(req.Products)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	result, err := h.svc.UpdateOrder(r.Context(), service.UpdateOrderRequest{
		OrderID: orderID,
		Header: database.UpdateOrderParams{
			DeliveryDate:   params.DeliveryDate,
			DoctorID:       params.DoctorID,
			SocialSecurity: params.SocialSecurity,
			LeftEye:        params.LeftEye,
			RightEye:       params.RightEye,
			GlassType:      params.GlassType,
			GlassIndex:     params.GlassIndex,
			TotalAmount:    params.TotalAmount,
			Status:         params.Status,
		},
		Lines:     lines,
		Vision:    service.VisionFlags(req.Vision),
		Treatment: service.TreatmentFlags(req.Treatment),
	})
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast("order.updated", orderID)
	writeJSON(w, http.StatusOK, toOrderResponse(result.Order))
}

// Delete handles DELETE /orders/{id}; stock is restored for every line.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcast("order.deleted", orderID)
	writeJSON(w, http.StatusOK, map[string]string{"id": orderID.String()})
}

// Invoice handles GET /orders/{id}/invoice and streams the rendered PDF.
// Any rendering failure is logged and surfaced as one generic error.
func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	data, err := h.invoiceData(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: assemble invoice data: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not generate invoice"})
		return
	}

	pdf, err := h.renderer.Render(r.Context(), data)
	if err != nil {
		log.Printf("ERROR: render invoice: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not generate invoice"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, orderID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck
}

// --- Helpers ---

func (h *OrderHandler) orderDetail(ctx context.Context, order database.Order) (orderDetailResponse, error) {
	detail := orderDetailResponse{orderResponse: toOrderResponse(order)}

	lines, err := h.store.ListOrderLines(ctx, order.ID)
	if err != nil {
		return detail, fmt.Errorf("list order lines: %w", err)
	}
	detail.Lines = make([]orderLineDetailResponse, len(lines))
	for i, line := range lines {
		detail.Lines[i] = orderLineDetailResponse{
			orderLineResponse: orderLineResponse{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: numericToString(line.UnitPrice),
				SubTotal:  numericToString(line.SubTotal),
			},
			ProductName:   line.ProductName,
			StockQuantity: line.StockQuantity,
			SellingPrice:  numericToString(line.SellingPrice),
		}
	}

	vision, err := h.store.GetOrderVision(ctx, order.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return detail, fmt.Errorf("get order vision: %w", err)
	}
	detail.Vision = visionRequest{
		FarSightedness:  vision.FarSightedness,
		NearSightedness: vision.NearSightedness,
		Progressive:     vision.Progressive,
		Solar:           vision.Solar,
	}

	treatment, err := h.store.GetOrderTreatment(ctx, order.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return detail, fmt.Errorf("get order treatment: %w", err)
	}
	detail.Treatment = treatmentRequest{
		White:         treatment.White,
		AntiBlueLight: treatment.AntiBlueLight,
		AntiReflexion: treatment.AntiReflexion,
		Degraded:      treatment.Degraded,
		Polarized:     treatment.Polarized,
		Mirrored:      treatment.Mirrored,
		Transitions:   treatment.Transitions,
		UniColor:      treatment.UniColor,
	}
	return detail, nil
}

func (h *OrderHandler) invoiceData(ctx context.Context, orderID uuid.UUID) (invoice.Data, error) {
	order, err := h.store.GetOrder(ctx, orderID)
	if err != nil {
		return invoice.Data{}, err
	}
	client, err := h.store.GetClient(ctx, order.ClientID)
	if err != nil {
		return invoice.Data{}, fmt.Errorf("get client: %w", err)
	}
	lines, err := h.store.ListOrderLines(ctx, orderID)
	if err != nil {
		return invoice.Data{}, fmt.Errorf("list order lines: %w", err)
	}
	vision, err := h.store.GetOrderVision(ctx, orderID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return invoice.Data{}, fmt.Errorf("get order vision: %w", err)
	}
	treatment, err := h.store.GetOrderTreatment(ctx, orderID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return invoice.Data{}, fmt.Errorf("get order treatment: %w", err)
	}

	data := invoice.Data{
		OrderDate:  order.OrderDate,
		ClientName: client.FirstName + " " + client.LastName,
		LeftEye: invoice.Prescription{
			Sph:  numericToString(order.LeftSph),
			Cyl:  numericToString(order.LeftCyl),
			Axis: numericToString(order.LeftAxis),
			Add:  numericToString(order.LeftAdd),
		},
		RightEye: invoice.Prescription{
			Sph:  numericToString(order.RightSph),
			Cyl:  numericToString(order.RightCyl),
			Axis: numericToString(order.RightAxis),
			Add:  numericToString(order.RightAdd),
		},
		Vision: []invoice.CheckItem{
			{Label: "Far sightedness", Checked: vision.FarSightedness},
			{Label: "Near sightedness", Checked: vision.NearSightedness},
			{Label: "Progressive", Checked: vision.Progressive},
			{Label: "Solar", Checked: vision.Solar},
		},
		Treatments: []invoice.CheckItem{
			{Label: "White", Checked: treatment.White},
			{Label: "Anti blue light", Checked: treatment.AntiBlueLight},
			{Label: "Anti reflexion", Checked: treatment.AntiReflexion},
			{Label: "Degraded", Checked: treatment.Degraded},
			{Label: "Polarized", Checked: treatment.Polarized},
			{Label: "Mirrored", Checked: treatment.Mirrored},
			{Label: "Transitions", Checked: treatment.Transitions},
			{Label: "Uni color", Checked: treatment.UniColor},
		},
		TotalAmount: numericToString(order.TotalAmount),
	}
	for _, line := range lines {
		data.Lines = append(data.Lines, invoice.Line{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   numericToString(line.UnitPrice),
			SubTotal:    numericToString(line.SubTotal),
		})
	}
	return data, nil
}

func (h *OrderHandler) broadcast(eventType string, orderID uuid.UUID) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]string{"order_id": orderID.String()})
	if err != nil {
		return
	}
	h.hub.Broadcast(ws.Event{Type: eventType, Payload: payload})
}
