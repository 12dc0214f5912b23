package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/entity"
	"github.com/joseph-ayodele/invoice-review/internal/llm"
)

type extractRequest struct {
	FileID        string `json:"fileId"`
	Model         string `json:"model"`
	ExtractedText string `json:"extractedText"`
}

type extractResponse struct {
	Success bool            `json:"success"`
	Invoice *entity.Invoice `json:"invoice,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details string          `json:"details,omitempty"`
}

type createInvoiceRequest struct {
	FileID      string             `json:"fileId"`
	FileName    string             `json:"fileName"`
	Vendor      entity.Vendor      `json:"vendor"`
	InvoiceInfo entity.InvoiceInfo `json:"invoiceInfo"`
	LineItems   []entity.LineItem  `json:"lineItems"`
}

// handleExtract runs the upload-then-extract flow: text in, structured
// invoice out. Failures keep the tagged envelope so the caller can tell a
// model problem from a storage one.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	v := common.NewValidator()
	v.Field("fileId", req.FileID, common.Required, common.UUID)
	v.Field("model", req.Model, common.Required)
	v.Field("extractedText", req.ExtractedText, common.Required)
	if err := v.Error(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	fileID := uuid.MustParse(req.FileID)

	inv, err := s.extractor.ExtractAndCreate(r.Context(), fileID, req.Model, req.ExtractedText)
	if err != nil {
		s.writeExtractError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{Success: true, Invoice: inv})
}

func (s *Server) writeExtractError(w http.ResponseWriter, err error) {
	var llmErr *llm.Error
	switch {
	case errors.As(err, &llmErr):
		status := http.StatusInternalServerError
		if llmErr.Kind == llm.FailureUnsupportedModel {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, extractResponse{
			Success: false,
			Error:   "LLM data extraction failed",
			Details: llmErr.Details,
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, extractResponse{
			Success: false,
			Error:   "PDF file not found for extraction",
		})
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, extractResponse{
			Success: false,
			Error:   err.Error(),
		})
	default:
		s.logger.Error("extract failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, extractResponse{
			Success: false,
			Error:   "LLM data extraction failed",
			Details: err.Error(),
		})
	}
}

// handleCreateInvoice is the manual-entry path. The same record shape as
// extraction produces, validated before anything touches storage.
func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	v := common.NewValidator()
	v.Field("fileId", req.FileID, common.Required, common.UUID)
	v.Field("fileName", req.FileName, common.Required)
	validateVendor(v, req.Vendor)
	validateInvoiceInfo(v, req.InvoiceInfo)
	validateLineItems(v, req.LineItems)
	if err := v.Error(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		FileID:        uuid.MustParse(req.FileID),
		FileName:      req.FileName,
		Vendor:        req.Vendor,
		InvoiceInfo:   req.InvoiceInfo,
		LineItems:     req.LineItems,
		ExtractedAt:   now,
		LastUpdatedAt: now,
	}

	created, err := s.invoices.Create(r.Context(), inv)
	if err != nil {
		writeError(w, s.logger, err, "Failed to create invoice")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	filter := entity.SearchFilter{
		VendorName:    r.URL.Query().Get("vendorName"),
		InvoiceNumber: r.URL.Query().Get("invoiceNumber"),
	}

	invs, err := s.invoices.Search(r.Context(), filter)
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch invoices")
		return
	}
	writeJSON(w, http.StatusOK, invs)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := s.invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := s.invoices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Invoice not found"})
			return
		}
		writeError(w, s.logger, err, "Failed to fetch invoice")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handleUpdateInvoice applies a partial patch. The decode target has no slot
// for fileId, fileName or extractedAt, so those survive any payload.
func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := s.invoiceID(w, r)
	if !ok {
		return
	}

	var patch entity.InvoiceUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	v := common.NewValidator()
	if patch.Vendor != nil {
		validateVendor(v, *patch.Vendor)
	}
	if patch.InvoiceInfo != nil {
		validateInvoiceInfo(v, *patch.InvoiceInfo)
	}
	if patch.LineItems != nil {
		validateLineItems(v, *patch.LineItems)
	}
	if err := v.Error(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	inv, err := s.invoices.Update(r.Context(), id, &patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Invoice not found"})
			return
		}
		writeError(w, s.logger, err, "Failed to update invoice")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// handleDeleteInvoice removes the stored PDF first, then the record. If the
// blob delete fails the record stays so nothing dangles; a blob that is
// already gone does not block the record.
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := s.invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := s.invoices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Invoice not found"})
			return
		}
		writeError(w, s.logger, err, "Failed to delete invoice")
		return
	}

	if err := s.files.Delete(r.Context(), inv.FileID); err != nil && !errors.Is(err, common.ErrNotFound) {
		writeError(w, s.logger, err, "Failed to delete invoice file")
		return
	}

	if err := s.invoices.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "Invoice not found"})
			return
		}
		writeError(w, s.logger, err, "Failed to delete invoice")
		return
	}

	s.logger.Info("invoice.delete.ok", "invoice_id", id, "file_id", inv.FileID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportInvoices(w http.ResponseWriter, r *http.Request) {
	filter := entity.SearchFilter{
		VendorName:    r.URL.Query().Get("vendorName"),
		InvoiceNumber: r.URL.Query().Get("invoiceNumber"),
	}

	data, err := s.exporter.ExportInvoicesXLSX(r.Context(), filter)
	if err != nil {
		writeError(w, s.logger, err, "Failed to export invoices")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}

func (s *Server) invoiceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid invoice id"})
		return uuid.Nil, false
	}
	return id, true
}

func validateVendor(v *common.Validator, vendor entity.Vendor) {
	v.Field("vendor.name", vendor.Name, common.Required)
	v.Field("vendor.address", vendor.Address, common.Required)
}

func validateInvoiceInfo(v *common.Validator, info entity.InvoiceInfo) {
	v.Field("invoiceInfo.number", info.Number, common.Required)
	v.Field("invoiceInfo.date", info.Date, common.Required, common.DateYMD)
	v.Field("invoiceInfo.dueDate", info.DueDate, common.Required, common.DateYMD)
	v.Field("invoiceInfo.totalAmount", info.TotalAmount, common.PositiveNumber)
	v.Field("invoiceInfo.currency", info.Currency, common.Required, common.CurrencyCode)
}

func validateLineItems(v *common.Validator, items []entity.LineItem) {
	for i, it := range items {
		prefix := fmt.Sprintf("lineItems[%d].", i)
		v.Field(prefix+"description", it.Description, common.Required)
		v.Field(prefix+"quantity", it.Quantity, common.PositiveInt)
		v.Field(prefix+"unitPrice", it.UnitPrice, common.PositiveNumber)
		v.Field(prefix+"total", it.Total, common.PositiveNumber)
	}
}
