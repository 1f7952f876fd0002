package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/optique-pos/api/internal/database"
	"github.com/optique-pos/api/internal/enum"
)

// SettingsStore defines the database methods needed by settings handlers.
// Satisfied by *database.Queries.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (database.Setting, error)
	ListSettings(ctx context.Context) ([]database.Setting, error)
	UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error)
}

// SettingsHandler handles the per-store preference endpoints, keeping
// language and theme in the database rather than in process state.
type SettingsHandler struct {
	store SettingsStore
}

func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings endpoints on the given Chi router.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{key}", h.Get)
	r.Put("/{key}", h.Put)
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type settingRequest struct {
	Value string `json:"value"`
}

// settingValues maps each known key to the values it accepts. Unknown
// keys are rejected so typos do not silently create settings.
var settingValues = map[string][]string{
	enum.SettingLanguage: {"en", "fr", "ar"},
	enum.SettingTheme:    {"light", "dark"},
}

func validSettingValue(key, value string) bool {
	allowed, ok := settingValues[key]
	if !ok {
		return false
	}
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

// List handles GET /settings.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.ListSettings(r.Context())
	if err != nil {
		log.Printf("ERROR: list settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	resp := make([]settingResponse, len(settings))
	for i, s := range settings {
		resp[i] = settingResponse{Key: s.Key, Value: s.Value}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /settings/{key}.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	setting, err := h.store.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "setting not found"})
			return
		}
		log.Printf("ERROR: get setting: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, settingResponse{Key: setting.Key, Value: setting.Value})
}

// Put handles PUT /settings/{key}.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !validSettingValue(key, req.Value) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown setting or value"})
		return
	}

	setting, err := h.store.UpsertSetting(r.Context(), database.UpsertSettingParams{
		Key:   key,
		Value: req.Value,
	})
	if err != nil {
		log.Printf("ERROR: upsert setting: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, settingResponse{Key: setting.Key, Value: setting.Value})
}
