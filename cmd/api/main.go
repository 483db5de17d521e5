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

	"github.com/joho/godotenv"

	"github.com/yuzuhub/answerphone/internal/audio"
	"github.com/yuzuhub/answerphone/internal/config"
	"github.com/yuzuhub/answerphone/internal/handler"
	flowService "github.com/yuzuhub/answerphone/internal/service/flow"
	"github.com/yuzuhub/answerphone/internal/service/notify"
	"github.com/yuzuhub/answerphone/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The signal tone is optional: no file configured, or a broken one,
	// just means no beep after the greeting.
	var beep *audio.Clip
	if cfg.Audio.BeepFile != "" {
		beep, err = audio.Load(cfg.Audio.BeepFile)
		if err != nil {
			log.Printf("warning: beep disabled: %v", err)
			beep = nil
		} else {
			log.Println("beep clip loaded")
		}
	} else {
		log.Println("no beep file configured, tone disabled")
	}

	notifier := notify.New(cfg.Hook)
	if !cfg.Hook.Enabled() {
		log.Println("notification sink not configured, summaries will be dropped")
	}

	store := session.NewStore(cfg.Session.MaxMessages)
	dispatcher := flowService.NewDispatcher(store, notifier, beep, cfg.Prompts)

	if cfg.Session.TTL > 0 {
		go store.RunSweeper(ctx, cfg.Session.TTL, dispatcher.HandleEvicted)
		log.Printf("idle session sweep enabled (ttl %s)", cfg.Session.TTL)
	} else {
		log.Println("idle session sweep disabled")
	}

	router := handler.NewRouter(dispatcher, cfg.Server.Secret)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("answerphone webhook listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
