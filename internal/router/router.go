package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/optique-pos/api/internal/auth"
	"github.com/optique-pos/api/internal/config"
	"github.com/optique-pos/api/internal/database"
	"github.com/optique-pos/api/internal/handler"
	"github.com/optique-pos/api/internal/invoice"
	mw "github.com/optique-pos/api/internal/middleware"
	"github.com/optique-pos/api/internal/service"
	"github.com/optique-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, renderer *invoice.Renderer) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration. The desktop shell serves the UI from its own
	// origin, dev runs against the Vite server.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:1420", // desktop shell
			"tauri://localhost",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authn := auth.NewDBAuthenticator(queries)
	authHandler := handler.NewAuthHandler(authn, queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Clients
		clientHandler := handler.NewClientHandler(queries)
		r.Route("/clients", clientHandler.RegisterRoutes)

		// Doctors
		doctorHandler := handler.NewDoctorHandler(queries)
		r.Route("/doctors", doctorHandler.RegisterRoutes)

		// Products
		productHandler := handler.NewProductHandler(queries)
		r.Route("/products", productHandler.RegisterRoutes)

		// Orders
		newOrderStore := func(db database.DBTX) service.OrderStore {
			return database.New(db)
		}
		orderService := service.NewOrderService(pool, newOrderStore)
		orderHandler := handler.NewOrderHandler(orderService, queries, renderer, hub)
		r.Route("/orders", orderHandler.RegisterRoutes)

		// Settings
		settingsHandler := handler.NewSettingsHandler(queries)
		r.Route("/settings", settingsHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
