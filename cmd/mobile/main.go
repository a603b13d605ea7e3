package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudo-init-do/khadamni/internal/api"
	"github.com/sudo-init-do/khadamni/internal/config"
	"github.com/sudo-init-do/khadamni/internal/mobile"
	"github.com/sudo-init-do/khadamni/internal/nav"
	"github.com/sudo-init-do/khadamni/internal/screens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := nav.NewRegistry(cfg.SessionIdleTTL)
	go reg.Run(ctx, time.Minute)

	client := api.New(cfg.APIBaseURL, api.WithTimeout(cfg.APITimeout))
	srv := &http.Server{
		Addr: cfg.MobileAddr,
		Handler: mobile.NewServer(mobile.Options{
			Screens:   screens.New(client),
			Registry:  reg,
			JWTSecret: cfg.JWTSecret,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("mobile API listening on %s (API %s)", cfg.MobileAddr, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
