package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/llm"
	"github.com/joseph-ayodele/invoice-review/internal/llm/gemini"
	"github.com/joseph-ayodele/invoice-review/internal/llm/groq"
)

// runextract feeds a plain-text file through structured extraction and prints
// the resulting invoice JSON. No database, no server: model behavior only.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: runextract <text-file> [model]")
		os.Exit(2)
	}
	model := "gemini"
	if len(os.Args) >= 3 {
		model = os.Args[2]
	}

	text, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read file", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()

	registry := llm.NewRegistry(logger)
	registry.Register(llm.ModelGemini, gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.GeminiAPIKey,
		Model:       cfg.LLM.GeminiModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger))
	registry.Register(llm.ModelGroq, groq.NewClient(logger))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	fields, _, err := registry.Extract(ctx, model, string(text))
	if err != nil {
		logger.Error("extraction failed", "model", model, "error", err)
		os.Exit(1)
	}
	logger.Info("extraction OK",
		"model", model,
		"vendor", fields.Vendor.Name,
		"number", fields.InvoiceInfo.Number,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	out, _ := json.MarshalIndent(fields, "", "  ")
	fmt.Println(string(out))
}
