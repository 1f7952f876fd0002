package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/optique-pos/api/internal/database"
)

// DoctorStore defines the database methods needed by doctor handlers.
type DoctorStore interface {
	ListDoctors(ctx context.Context, arg database.ListDoctorsParams) ([]database.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (database.Doctor, error)
	CreateDoctor(ctx context.Context, arg database.CreateDoctorParams) (database.Doctor, error)
	UpdateDoctor(ctx context.Context, arg database.UpdateDoctorParams) (database.Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// DoctorHandler handles doctor CRUD endpoints.
type DoctorHandler struct {
	store DoctorStore
}

func NewDoctorHandler(store DoctorStore) *DoctorHandler {
	return &DoctorHandler{store: store}
}

func (h *DoctorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

type doctorRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Specialty   string `json:"specialty"`
	PhoneNumber string `json:"phone_number"`
}

type doctorResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Specialty   *string   `json:"specialty"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDoctorResponse(d database.Doctor) doctorResponse {
	resp := doctorResponse{
		ID:          d.ID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Specialty.Valid {
		resp.Specialty = &d.Specialty.String
	}
	return resp
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	doctors, err := h.store.ListDoctors(r.Context(), database.ListDoctorsParams{
		Search: searchParam(r),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		log.Printf("ERROR: list doctors: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]doctorResponse, len(doctors))
	for i, d := range doctors {
		resp[i] = toDoctorResponse(d)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid doctor ID"})
		return
	}

	doctor, err := h.store.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "doctor not found"})
			return
		}
		log.Printf("ERROR: get doctor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDoctorResponse(doctor))
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req doctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FirstName == "" || req.LastName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_name and last_name are required"})
		return
	}

	doctor, err := h.store.CreateDoctor(r.Context(), database.CreateDoctorParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Specialty:   textOrNull(req.Specialty),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		log.Printf("ERROR: create doctor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toDoctorResponse(doctor))
}

func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid doctor ID"})
		return
	}

	var req doctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.FirstName == "" || req.LastName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_name and last_name are required"})
		return
	}

	doctor, err := h.store.UpdateDoctor(r.Context(), database.UpdateDoctorParams{
		ID:          doctorID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Specialty:   textOrNull(req.Specialty),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "doctor not found"})
			return
		}
		log.Printf("ERROR: update doctor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toDoctorResponse(doctor))
}

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid doctor ID"})
		return
	}

	deleted, err := h.store.DeleteDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "doctor not found"})
			return
		}
		log.Printf("ERROR: delete doctor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": deleted.String()})
}
