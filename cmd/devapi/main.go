package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudo-init-do/khadamni/internal/config"
	"github.com/sudo-init-do/khadamni/internal/devapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := devapi.Open(ctx, cfg.DevAPIDriver, cfg.DevAPIDSN)
	if err != nil {
		log.Fatalf("store error: %v", err)
	}
	defer store.Close()

	e := devapi.NewServer(store)
	go func() {
		log.Printf("stand-in API listening on %s (%s)", cfg.DevAPIAddr, cfg.DevAPIDriver)
		if err := e.Start(cfg.DevAPIAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
