package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/export"
	"github.com/joseph-ayodele/invoice-review/internal/extract"
	"github.com/joseph-ayodele/invoice-review/internal/llm"
	"github.com/joseph-ayodele/invoice-review/internal/llm/gemini"
	"github.com/joseph-ayodele/invoice-review/internal/llm/groq"
	"github.com/joseph-ayodele/invoice-review/internal/pdftext"
	repo "github.com/joseph-ayodele/invoice-review/internal/repository"
	"github.com/joseph-ayodele/invoice-review/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCfg := repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}
	pool, err := repo.Open(ctx, dbCfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(pool, logger)

	if err := repo.Migrate(cfg.Database.DSN, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := repo.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	filesRepo := repo.NewFileRepository(pool, logger)
	invoicesRepo := repo.NewInvoiceRepository(pool, logger)

	registry := llm.NewRegistry(logger)
	registry.Register(llm.ModelGemini, gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.GeminiAPIKey,
		Model:       cfg.LLM.GeminiModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger))
	registry.Register(llm.ModelGroq, groq.NewClient(logger))

	pdfExtractor := pdftext.NewExtractor(pdftext.Config{
		Pdftotext: cfg.PDF.Pdftotext,
		MaxPages:  cfg.PDF.MaxPages,
	}, logger)

	extractService := extract.NewService(registry, filesRepo, invoicesRepo, logger)
	exportService := export.NewService(invoicesRepo, logger)

	srv := server.New(cfg, logger, filesRepo, invoicesRepo, pdfExtractor, extractService, exportService, pool)
	if err := srv.Run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
