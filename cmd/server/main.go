package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	webAdapter "sales-service/internal/adapters/web"
	"sales-service/internal/app"
	"sales-service/internal/core"
	"sales-service/internal/db"
	"sales-service/internal/messaging"
	"sales-service/internal/postgres"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	broker, err := messaging.Dial(messaging.Config{
		URL:             os.Getenv("AMQP_URL"),
		Exchange:        os.Getenv("EVENTS_EXCHANGE"),
		DeclareTopology: os.Getenv("DECLARE_TOPOLOGY") != "false",
	})
	if err != nil {
		log.Fatalf("broker: %v", err)
	}
	defer broker.Close()

	repo := postgres.NewSaleRepository(pool)
	saleService := core.NewSaleService(repo, broker)
	svc := app.NewAppService(saleService)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
