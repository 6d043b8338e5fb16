// mqvi moderation add-on.
//
// Runs next to an mqvi server and handles moderation commands: staff role and
// channel setup, promotions to owner-approved roles, infractions with revocable
// case ids. Records live in SQLite (default) or MongoDB.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/mqvi-modbot/config"
	"github.com/akinalp/mqvi-modbot/pkg/i18n"
	"github.com/akinalp/mqvi-modbot/platform"
	"github.com/akinalp/mqvi-modbot/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] modbot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d, driver=%s, platform=%s)",
		cfg.Server.Port, cfg.Database.Driver, cfg.Platform.URL)

	if err := i18n.LoadEmbedded(); err != nil {
		log.Fatalf("[main] failed to load i18n translations: %v", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := initRepositories(startCtx, cfg.Database)
	cancelStart()
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	platformClient := platform.NewHTTPClient(cfg.Platform.URL, cfg.Platform.BotToken, cfg.Platform.Timeout)

	hub := ws.NewHub()
	go hub.Run()

	svcs := initServices(cfg, repos, platformClient, hub)
	h := initHandlers(svcs, hub, cfg.Database.Driver)

	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, platformClient)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler.Handler(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}
	if err := repos.Close(ctx); err != nil {
		log.Printf("[main] failed to close store: %v", err)
	}

	log.Println("[main] stopped")
}
