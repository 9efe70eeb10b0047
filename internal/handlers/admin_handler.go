package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
)

// AdminHandler handles admin-specific routes
type AdminHandler struct {
	directory     *service.DirectoryService
	imports       *service.ImportService
	backupService *service.BackupService
	uploadMaxSize int64
	logger        *zap.SugaredLogger
}

// NewAdminHandler creates a new admin handler. A nil import service turns
// the import routes off.
func NewAdminHandler(directory *service.DirectoryService, imports *service.ImportService, backupService *service.BackupService, uploadMaxSize int64, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{
		directory:     directory,
		imports:       imports,
		backupService: backupService,
		uploadMaxSize: uploadMaxSize,
		logger:        logger,
	}
}

// Stats returns the dashboard summary
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.Stats())
}

// Approve publishes a pending member
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	m, err := h.directory.Approve(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Reject hides a member from the directory
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	m, err := h.directory.Reject(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// DeleteMember removes a member
func (h *AdminHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Delete(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// UpdateSettings replaces the organization profile
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.SansthaSettings
	if !decodeJSON(w, r, &settings) {
		return
	}
	saved, err := h.directory.UpdateSettings(r.Context(), GetUserFromContext(r.Context()), settings)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// Booklet returns the page plan of the full booklet
func (h *AdminHandler) Booklet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.BookletPlan(r.URL.Query().Get("lang")))
}

// PrintBooklet renders the full booklet as HTML
func (h *AdminHandler) PrintBooklet(w http.ResponseWriter, r *http.Request) {
	plan := h.directory.BookletPlan(r.URL.Query().Get("lang"))
	renderHTML(w, h.logger, plan, h.directory.Settings())
}

// StagedImport returns the records waiting for review
func (h *AdminHandler) StagedImport(w http.ResponseWriter, r *http.Request) {
	if h.imports == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, h.imports.Staged())
}

type importTextRequest struct {
	Text string `json:"text"`
}

// ImportText extracts records from pasted register text
func (h *AdminHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	if h.imports == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	var req importTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondWithMessage(w, http.StatusBadRequest, "text is required")
		return
	}

	staged, err := h.imports.StageText(r.Context(), req.Text)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, staged)
}

// ImportDocument extracts records from an uploaded PDF, image or Word file
func (h *AdminHandler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	if h.imports == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	data, mimeType, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	staged, err := h.imports.StageDocument(r.Context(), data, mimeType)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, staged)
}

// CommitImport saves the staged records
func (h *AdminHandler) CommitImport(w http.ResponseWriter, r *http.Request) {
	if h.imports == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	res, err := h.imports.Commit(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// DiscardImport drops the staged records
func (h *AdminHandler) DiscardImport(w http.ResponseWriter, r *http.Request) {
	if h.imports == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	h.imports.Discard()
	respondJSON(w, http.StatusOK, nil)
}

// ExportBackup downloads the whole directory as JSON
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.backupService.Export(&buf); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("samaj-backup-%s.json", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = buf.WriteTo(w)
}

// ImportBackup restores the directory from an uploaded backup. The file
// may be sent as multipart form data or as the raw request body.
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var data []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var ok bool
		if data, _, ok = h.readUpload(w, r); !ok {
			return
		}
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.uploadMaxSize))
		if err != nil {
			respondWithMessage(w, http.StatusRequestEntityTooLarge, "Backup is too large")
			return
		}
		data = body
	}

	if err := h.backupService.Import(r.Context(), bytes.NewReader(data)); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Infow("Backup imported", "by", GetUserFromContext(r.Context()).ID)
	respondJSON(w, http.StatusOK, h.directory.Stats())
}

// readUpload reads the "file" field of a multipart request and works out
// its MIME type
func (h *AdminHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)
	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		respondWithMessage(w, http.StatusBadRequest, "File is missing or too large")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithMessage(w, http.StatusBadRequest, "No file uploaded")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithMessage(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, "", false
	}
	return data, uploadMIMEType(header.Filename, header.Header.Get("Content-Type"), data), true
}

var mimeByExtension = map[string]string{
	".pdf":  extract.MIMEPDF,
	".docx": extract.MIMEDocx,
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".json": "application/json",
}

// uploadMIMEType trusts a specific declared type, then the file
// extension, then content sniffing
func uploadMIMEType(filename, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if t, ok := mimeByExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	t, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return t
}
