package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// parsePDFResponse is the wire shape of POST /api/parse-pdf.
type parsePDFResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// readMultipartFile pulls the "file" part out of a multipart request,
// enforcing the size cap. Failures come back as an error whose message is
// safe to echo; the caller decides the response shape.
func (s *Server) readMultipartFile(w http.ResponseWriter, r *http.Request) (data []byte, filename string, err error) {
	maxBytes := int64(s.cfg.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "", fmt.Errorf("file exceeds the %d MB limit or the form is malformed", s.cfg.Server.MaxUploadMB)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("No file uploaded")
	}
	defer func() { _ = file.Close() }()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", errors.New("failed to read uploaded file")
	}
	return data, header.Filename, nil
}

// handleUpload stores the PDF bytes and returns the blob id the extract flow
// references later.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readMultipartFile(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Only PDF files are allowed"})
		return
	}

	f, err := s.files.Save(r.Context(), filename, "application/pdf", data)
	if err != nil {
		writeError(w, s.logger, err, "Failed to upload file")
		return
	}

	s.logger.Info("file.upload.ok", "file_id", f.ID, "file_name", f.Filename, "bytes", f.SizeBytes)
	writeJSON(w, http.StatusCreated, map[string]string{
		"fileId":   f.ID.String(),
		"fileName": f.Filename,
	})
}

// handleParsePDF extracts plain text from the uploaded PDF without storing
// anything. Every failure keeps the success:false envelope; the bytes decide
// whether the input is a PDF, not the filename.
func (s *Server) handleParsePDF(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.readMultipartFile(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, parsePDFResponse{Success: false, Error: err.Error()})
		return
	}

	res, err := s.pdf.ExtractText(r.Context(), data)
	if err != nil {
		s.logger.Warn("pdf parse failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, parsePDFResponse{
			Success: false,
			Error:   "Failed to parse PDF",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, parsePDFResponse{Success: true, Text: res.Text})
}

// handleDownloadFile streams the original PDF bytes back.
func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid file id"})
		return
	}

	f, err := s.files.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch file")
		return
	}

	ct := f.ContentType
	if ct == "" {
		ct = "application/pdf"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": f.Filename}))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(f.Data)))
	_, _ = w.Write(f.Data)
}
