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
	mware "github.com/sudo-init-do/khadamni/internal/middleware"
	"github.com/sudo-init-do/khadamni/internal/nav"
	"github.com/sudo-init-do/khadamni/internal/screens"
	"github.com/sudo-init-do/khadamni/internal/web"
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
	e, err := web.NewServer(web.Options{
		Screens:  screens.New(client),
		Registry: reg,
		Sessions: mware.NewCookieStore(cfg.SessionSecret, int(cfg.SessionIdleTTL.Seconds()), false),
	})
	if err != nil {
		log.Fatalf("web setup error: %v", err)
	}

	go func() {
		log.Printf("web server listening on %s (API %s)", cfg.WebAddr, cfg.APIBaseURL)
		if err := e.Start(cfg.WebAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
