package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/llm"
	"docchat/internal/retrieve"
	"docchat/internal/session"
)

func main() {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	lang := retrieve.DefaultLanguage()
	if cfg.RetrievalLangFile != "" {
		var err error
		lang, err = retrieve.LoadLanguage(cfg.RetrievalLangFile)
		if err != nil {
			log.Error("failed to load language file", "path", cfg.RetrievalLangFile, "error", err)
			os.Exit(1)
		}
		log.Info("loaded language file", "path", cfg.RetrievalLangFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.CleanupLoop(ctx, 5*time.Minute)

	stats := llm.NewStats(time.Hour)
	chat := llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, stats)
	retriever := retrieve.New(lang, log)

	srv := api.NewServer(sessions, retriever, chat, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		chat.Close()
	}()

	log.Info("starting docchat", "port", cfg.Port, "model", cfg.LLMModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
