package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "doc-extract/docs" // Swagger docs
	"doc-extract/internal/api"
	"doc-extract/internal/config"
	"doc-extract/internal/llm"
	"doc-extract/internal/pipeline"
	"doc-extract/internal/storage"
)

// @title Document Extraction API
// @version 1.0
// @description Extracts structured contact/resume fields from uploaded documents using a generative model and stores deduplicated records

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Connecting to database...")
	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open:", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal(err)
	}
	log.Println("Database connected successfully!")

	model, err := llm.NewClient(ctx, cfg.GeminiAPIKey, llm.Config{
		Model:       cfg.GeminiModel,
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.RetryDelay,
	})
	if err != nil {
		log.Fatal("model client:", err)
	}
	defer model.Close()

	apiSrv := api.NewAPI(db, pipeline.New(model, db))
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // file uploads
		WriteTimeout: 10 * time.Minute,  // model calls + backoff can block for a while
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}
