package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"tasklink/config"
	"tasklink/connections"
	"tasklink/database"
	"tasklink/handlers"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	store := database.NewStore(db, cfg.PageLimit)
	engine := connections.NewEngine(store)

	hub := handlers.NewHub()
	go hub.Run()

	handler := handlers.NewHandler(store, engine, hub)
	router := handlers.NewRouter(handler, cfg.SecretKey)

	log.Printf("tasklink server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
