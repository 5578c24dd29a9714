package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-mgmt-backend/pkg/config"
	"project-mgmt-backend/pkg/database"
	"project-mgmt-backend/pkg/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[error] invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var db database.DatabaseInterface
	if cfg.PostgresDSN != "" {
		db, err = database.NewPostgresDatabase(cfg.PostgresDSN)
		if err != nil {
			fmt.Printf("[error] failed to connect to postgres: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("[info] using postgres storage")
	} else {
		db = database.NewMemoryDatabase()
		fmt.Println("[warn] POSTGRES_DSN not set, using in-memory storage")
	}
	defer db.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.NewRouter(cfg, db),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		fmt.Printf("[info] listening on :%s (%s)\n", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("[error] server stopped: %v\n", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("[info] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Printf("[warn] graceful shutdown failed: %v\n", err)
	}
}
