// Package server exposes the invoice-review HTTP API: PDF upload and parsing,
// structured extraction, and CRUD plus search over reviewed invoices.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/entity"
	"github.com/joseph-ayodele/invoice-review/internal/pdftext"
	"github.com/joseph-ayodele/invoice-review/internal/repository"
)

// TextExtractor turns PDF bytes into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (pdftext.Result, error)
}

// ExtractionService runs structured extraction and persists the result.
type ExtractionService interface {
	ExtractAndCreate(ctx context.Context, fileID uuid.UUID, model string, text string) (*entity.Invoice, error)
}

// Exporter renders a filtered invoice set as an XLSX workbook.
type Exporter interface {
	ExportInvoicesXLSX(ctx context.Context, filter entity.SearchFilter) ([]byte, error)
}

// Pinger reports storage liveness. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cfg       *common.Config
	logger    *slog.Logger
	files     repository.FileRepository
	invoices  repository.InvoiceRepository
	pdf       TextExtractor
	extractor ExtractionService
	exporter  Exporter
	db        Pinger

	httpServer *http.Server
}

func New(
	cfg *common.Config,
	logger *slog.Logger,
	files repository.FileRepository,
	invoices repository.InvoiceRepository,
	pdf TextExtractor,
	extractor ExtractionService,
	exporter Exporter,
	db Pinger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		files:     files,
		invoices:  invoices,
		pdf:       pdf,
		extractor: extractor,
		exporter:  exporter,
		db:        db,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router wires every route. Exposed separately so handler tests can drive the
// full mux without opening a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(s.logger))
	r.Use(Metrics())

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API is running..."))
	})
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/invoices", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/extract", s.handleExtract)
		r.Post("/", s.handleCreateInvoice)
		r.Get("/", s.handleListInvoices)
		r.Get("/export", s.handleExportInvoices)
		r.Get("/{id}", s.handleGetInvoice)
		r.Put("/{id}", s.handleUpdateInvoice)
		r.Delete("/{id}", s.handleDeleteInvoice)
	})
	r.Post("/api/parse-pdf", s.handleParsePDF)
	r.Get("/api/files/{id}", s.handleDownloadFile)

	return r
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
