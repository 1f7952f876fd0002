package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/optique-pos/api/internal/config"
	"github.com/optique-pos/api/internal/database"
	"github.com/optique-pos/api/internal/invoice"
	"github.com/optique-pos/api/internal/router"
	"github.com/optique-pos/api/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database schema up to date")

	queries := database.New(pool)

	assets, err := invoice.LoadAssets(cfg.AssetsDir)
	if err != nil {
		log.Fatalf("Failed to load invoice assets: %v", err)
	}
	renderer := invoice.NewRenderer(cfg.ChromePath, assets)

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, queries, pool, hub, renderer)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
