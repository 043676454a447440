package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/rdflg/internal/application"
	apptos "github.com/bryanwahyu/rdflg/internal/application/tos"
	"github.com/bryanwahyu/rdflg/internal/config"
	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/gemini"
	"github.com/bryanwahyu/rdflg/internal/infra/ai/openai"
	"github.com/bryanwahyu/rdflg/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/rdflg/internal/infra/storage"
	"github.com/bryanwahyu/rdflg/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}
	log := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, err := newCompleter(ctx, cfg)
	if err != nil {
		log.Fatalf("llm init error: %v", err)
	}

	checkers := map[string]middleware.HealthChecker{}

	// history store (read-only)
	history, storeCheck, closeStore := setupHistory(ctx, cfg, log)
	defer closeStore()
	if storeCheck != nil {
		checkers["store"] = storeCheck
	}

	// result archive
	var archive domain.Archive = domain.NopArchive{}
	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx, minioStore.Config{
			Endpoint:   cfg.Minio.Endpoint,
			Region:     cfg.Minio.Region,
			BucketName: cfg.Minio.BucketName,
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			UseSSL:     cfg.Minio.UseSSL,
			Prefix:     cfg.Minio.Prefix,
		})
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	metrics := middleware.NewMetrics()

	svc := &apptos.Service{
		LLM:            llm,
		History:        history,
		Archive:        archive,
		Clock:          application.SystemClock{},
		Log:            log,
		Observer:       metrics,
		Timeout:        cfg.LLM.Timeout,
		HistoryLimit:   cfg.Community.SampleSize,
		HistoryTimeout: cfg.Community.ReadTimeout,
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
		go limiter.RunSweeper(ctx, 5*time.Minute, 10*time.Minute)
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Log:         log,
		Metrics:     metrics,
		RateLimiter: limiter,
		CORSOrigins: cfg.Server.CORSOrigins,
		APIKeys:     cfg.Server.APIKeys,
		Checkers:    checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// /analyze-tos makes two sequential completions
		WriteTimeout: 2*cfg.LLM.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "provider": cfg.LLM.Provider}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newCompleter(ctx context.Context, cfg *config.Config) (domain.Completer, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		c := openai.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		if cfg.LLM.MaxTokens > 0 {
			c.MaxTokens = cfg.LLM.MaxTokens
		}
		return c, nil
	default:
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:          cfg.LLM.APIKey,
			Model:           cfg.LLM.Model,
			BaseURL:         cfg.LLM.BaseURL,
			MaxOutputTokens: int32(cfg.LLM.MaxTokens),
		})
	}
}
