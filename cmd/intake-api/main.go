package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	httpadapter "github.com/PabloGalante/intake-agent/internal/adapters/http"
	"github.com/PabloGalante/intake-agent/internal/adapters/llm"
	"github.com/PabloGalante/intake-agent/internal/adapters/lock"
	"github.com/PabloGalante/intake-agent/internal/adapters/storage"
	"github.com/PabloGalante/intake-agent/internal/app/agentflow"
	"github.com/PabloGalante/intake-agent/internal/app/attorney"
	"github.com/PabloGalante/intake-agent/internal/app/departments"
	"github.com/PabloGalante/intake-agent/internal/app/documents"
	"github.com/PabloGalante/intake-agent/internal/app/intake"
	"github.com/PabloGalante/intake-agent/internal/config"
	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	observability.SetLevel(cfg.LogLevel)

	// LLM: mock or Gemini (API key or Vertex)
	var llmClient domain.LLMClient
	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Info("using Gemini LLM client", "backend", cfg.LLMBackend, "model", cfg.ModelName)
		llmClient, err = llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Vertex:   cfg.LLMBackend == config.LLMVertex,
			APIKey:   cfg.GeminiAPIKey,
			Project:  cfg.GCPProjectID,
			Location: cfg.GCPLocation,
			Model:    cfg.ModelName,
			Timeout:  cfg.LLMTimeout,
		})
		if err != nil {
			log.Error("error initializing Gemini client", "error", err)
			os.Exit(1)
		}
	}

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("error initializing storage", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	if cfg.SeedDepartments {
		if _, _, err := departments.Seed(ctx, stores.Departments, departments.DefaultCatalog()); err != nil {
			log.Error("error seeding departments", "error", err)
			os.Exit(1)
		}
	}

	// Turn locks: Redis when configured, otherwise in-process
	var locker domain.TurnLocker
	if cfg.RedisURL != "" {
		rl, err := lock.NewRedisLocker(cfg.RedisURL, cfg.LockTTL)
		if err != nil {
			log.Error("error connecting to redis", "error", err)
			os.Exit(1)
		}
		defer rl.Close()
		log.Info("using redis turn locks")
		locker = rl
	} else {
		locker = lock.NewMemoryLocker()
	}

	var tokenizer agentflow.Tokenizer
	if tk, err := llm.NewTokenizer(); err != nil {
		log.Warn("tokenizer unavailable, prior history will not be truncated", "error", err)
	} else {
		tokenizer = tk
	}
	summarizer := agentflow.NewSummarizer(llmClient, tokenizer, cfg.SummaryMaxTokens)

	intakeSvc := intake.NewService(llmClient, stores.Departments, stores.Clients, stores.Interactions, summarizer, locker)
	attorneySvc := attorney.NewService(llmClient, stores.Departments)
	documentsSvc := documents.NewService(stores.Documents, stores.Interactions)

	if cfg.Mode == config.ModeGCP {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(intakeSvc, attorneySvc, documentsSvc, stores.Departments),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("intake API listening", "port", cfg.Port, "mode", cfg.Mode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
