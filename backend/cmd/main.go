package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialstream/backend/config"
	"socialstream/backend/handlers"
	"socialstream/backend/logging"
	"socialstream/backend/realtime"
	"socialstream/backend/router"
	"socialstream/backend/store"
)

func main() {
	cfg := config.FromEnv()

	lg, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	st, err := store.Open(cfg.DatabasePath, sugar)
	if err != nil {
		sugar.Fatalf("open database: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		sugar.Fatalf("apply schema: %v", err)
	}
	if cfg.SeedDemo {
		if err := st.SeedDemoUsers(ctx); err != nil {
			sugar.Warnf("seed demo users: %v", err)
		}
	}

	hub := realtime.NewHub(sugar)
	go hub.Run(ctx)

	registry := realtime.NewRegistry(st, hub, sugar)
	messenger := realtime.NewMessenger(st, registry, hub, sugar)

	sessions := handlers.NewSessionStore()
	go sessions.Run(ctx)

	api := handlers.New(st, hub, registry, messenger, sessions, sugar)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router.New(api, sugar),
	}

	go func() {
		sugar.Infow("server started", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
}
