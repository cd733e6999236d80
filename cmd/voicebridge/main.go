package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samarth777/digital-ease-voice-bridge/internal/agent"
	"github.com/samarth777/digital-ease-voice-bridge/internal/config"
	"github.com/samarth777/digital-ease-voice-bridge/internal/httpapi"
	"github.com/samarth777/digital-ease-voice-bridge/internal/observability"
	"github.com/samarth777/digital-ease-voice-bridge/internal/session"
	"github.com/samarth777/digital-ease-voice-bridge/internal/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := session.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("session store init failed: %v", err)
	}
	defer store.Close()
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		log.Printf("session store: postgres")
	} else {
		log.Printf("session store: in-memory (records do not survive restart)")
	}

	var provider *voice.MockProvider
	switch strings.ToLower(strings.TrimSpace(cfg.VoiceProvider)) {
	case "", "mock":
		provider = voice.NewMockProvider(cfg.MockProcessingDelay, cfg.DefaultLanguage)
		log.Printf("voice provider: mock (processing delay %s)", cfg.MockProcessingDelay)
	default:
		log.Fatalf("invalid VOICE_PROVIDER: %q (only mock is available)", cfg.VoiceProvider)
	}

	agentAdapter, err := agent.NewAdapter(agent.Config{
		Mode:      cfg.AgentAdapterMode,
		HTTPURL:   cfg.AgentHTTPURL,
		MockDelay: cfg.MockAgentDelay,
	})
	if err != nil {
		log.Fatalf("agent adapter init failed: %v", err)
	}
	if _, ok := agentAdapter.(*agent.HTTPAdapter); ok {
		log.Printf("agent adapter: http (%s)", cfg.AgentHTTPURL)
	} else {
		log.Printf("agent adapter: mock")
	}

	api := httpapi.New(cfg, store, httpapi.Providers{
		Recognizer:  provider,
		Synthesizer: provider,
		Stream:      provider,
		Agent:       agentAdapter,
	}, metrics)

	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("voice bridge listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
