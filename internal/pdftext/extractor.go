// Package pdftext turns raw PDF bytes into plain text. Integrity is checked
// with pdfcpu before the poppler pdftotext binary is invoked, so corrupt or
// non-PDF input fails with a diagnostic instead of garbage output.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

type Result struct {
	Text     string
	Pages    int
	Duration time.Duration
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner; tests use this to avoid exec.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// ExtractText writes the PDF bytes to a scratch file, validates them, and
// runs pdftotext over the result.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (Result, error) {
	start := time.Now()

	if len(data) == 0 {
		return Result{}, fmt.Errorf("empty input")
	}

	tmp, err := os.CreateTemp("", "ir-pdf-*.pdf")
	if err != nil {
		return Result{}, fmt.Errorf("create scratch file: %w", err)
	}
	path := tmp.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			e.logger.Warn("failed to remove scratch file", "path", path, "error", err)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Result{}, fmt.Errorf("write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close scratch file: %w", err)
	}

	// pdfcpu parses the xref table and page tree; anything that fails here is
	// not a PDF we can extract from.
	pages, err := api.PageCountFile(path)
	if err != nil {
		e.logger.Warn("pdf validation failed", "bytes", len(data), "error", err)
		return Result{}, fmt.Errorf("not a valid PDF: %w", err)
	}

	text, err := e.pdfToText(ctx, path)
	if err != nil {
		return Result{}, err
	}

	res := Result{Text: text, Pages: pages, Duration: time.Since(start)}
	e.logger.Info("pdftext.ok", "pages", pages, "text_bytes", len(text), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix [-l N] <path> -
	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", e.cfg.MaxPages))
	}
	args = append(args, path, "-")

	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
