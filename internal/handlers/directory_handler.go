package handlers

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/booklet"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
)

// DirectoryHandler serves the member directory to signed-in users
type DirectoryHandler struct {
	directory *service.DirectoryService
	logger    *zap.SugaredLogger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory *service.DirectoryService, logger *zap.SugaredLogger) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, logger: logger}
}

// Settings returns the organization profile
func (h *DirectoryHandler) Settings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.Settings())
}

// ListMembers returns the members the user may read
func (h *DirectoryHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.directory.Members(user))
}

// GetMember returns one member
func (h *DirectoryHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	m, err := h.directory.Member(user, r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// SubmitMember creates or updates a member and, for heads, their household
func (h *DirectoryHandler) SubmitMember(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user := GetUserFromContext(r.Context())
	res, err := h.directory.Submit(r.Context(), user, req)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// CheckDuplicate classifies a draft record without saving it
func (h *DirectoryHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var candidate models.FamilyMember
	if !decodeJSON(w, r, &candidate) {
		return
	}
	user := GetUserFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.directory.CheckDuplicate(user, candidate))
}

// ListFamilies returns the households the user may browse
func (h *DirectoryHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.directory.VisibleFamilies(user))
}

// FamilyTree returns the parent/child tree of one family
func (h *DirectoryHandler) FamilyTree(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	roots, err := h.directory.FamilyTree(user, r.PathValue("familyId"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, roots)
}

// PrintFamily renders the printable page of one family
func (h *DirectoryHandler) PrintFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	plan, err := h.directory.FamilyPlan(user, r.PathValue("familyId"), r.URL.Query().Get("lang"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	renderHTML(w, h.logger, plan, h.directory.Settings())
}

// Matrimonial lists members open to marriage proposals
func (h *DirectoryHandler) Matrimonial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondJSON(w, http.StatusOK, h.directory.Matrimonial(service.MatrimonialFilter{
		Gender:    q.Get("gender"),
		Education: q.Get("education"),
		Query:     q.Get("q"),
	}))
}

// BloodDonors lists members by blood group
func (h *DirectoryHandler) BloodDonors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondJSON(w, http.StatusOK, h.directory.BloodDonors(service.BloodFilter{
		Group: q.Get("group"),
		Query: q.Get("q"),
	}))
}

// renderHTML writes the plan as an HTML page. Rendering is buffered; a
// failure is reported as JSON instead.
func renderHTML(w http.ResponseWriter, logger *zap.SugaredLogger, plan booklet.Plan, settings models.SansthaSettings) {
	var buf bytes.Buffer
	if err := booklet.Render(&buf, plan, settings); err != nil {
		respondWithError(w, logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
