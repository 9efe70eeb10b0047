package handlers

import "net/http"

// Handlers groups every route handler
type Handlers struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Directory  *DirectoryHandler
	AI         *AIHandler
	Admin      *AdminHandler
}

// RegisterRoutes mounts the JSON API on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mw := h.Middleware

	// Public routes
	mux.HandleFunc("POST /api/auth/login", mw.RateLimit(h.Auth.Login))
	mux.HandleFunc("POST /api/auth/admin", mw.RateLimit(h.Auth.AdminLogin))
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/settings", h.Directory.Settings)

	// Signed-in routes
	mux.HandleFunc("GET /api/auth/me", mw.RequireAuth(h.Auth.Me))
	mux.HandleFunc("GET /api/members", mw.RequireAuth(h.Directory.ListMembers))
	mux.HandleFunc("GET /api/members/{id}", mw.RequireAuth(h.Directory.GetMember))
	mux.HandleFunc("POST /api/members", mw.RequireAuth(h.Directory.SubmitMember))
	mux.HandleFunc("POST /api/members/check", mw.RequireAuth(h.Directory.CheckDuplicate))
	mux.HandleFunc("GET /api/families", mw.RequireAuth(h.Directory.ListFamilies))
	mux.HandleFunc("GET /api/families/{familyId}/tree", mw.RequireAuth(h.Directory.FamilyTree))
	mux.HandleFunc("GET /api/families/{familyId}/print", mw.RequireAuth(h.Directory.PrintFamily))
	mux.HandleFunc("GET /api/directory/matrimonial", mw.RequireAuth(h.Directory.Matrimonial))
	mux.HandleFunc("GET /api/directory/blood", mw.RequireAuth(h.Directory.BloodDonors))
	mux.HandleFunc("POST /api/ai/native-details", mw.RequireAuth(mw.RateLimit(h.AI.NativeDetails)))
	mux.HandleFunc("POST /api/ai/translate", mw.RequireAuth(mw.RateLimit(h.AI.Translate)))

	// Admin routes
	mux.HandleFunc("GET /api/admin/stats", mw.RequireAdmin(h.Admin.Stats))
	mux.HandleFunc("POST /api/admin/members/{id}/approve", mw.RequireAdmin(h.Admin.Approve))
	mux.HandleFunc("POST /api/admin/members/{id}/reject", mw.RequireAdmin(h.Admin.Reject))
	mux.HandleFunc("DELETE /api/admin/members/{id}", mw.RequireAdmin(h.Admin.DeleteMember))
	mux.HandleFunc("PUT /api/admin/settings", mw.RequireAdmin(h.Admin.UpdateSettings))
	mux.HandleFunc("GET /api/admin/booklet", mw.RequireAdmin(h.Admin.Booklet))
	mux.HandleFunc("GET /api/admin/booklet/print", mw.RequireAdmin(h.Admin.PrintBooklet))
	mux.HandleFunc("GET /api/admin/import", mw.RequireAdmin(h.Admin.StagedImport))
	mux.HandleFunc("POST /api/admin/import/text", mw.RequireAdmin(mw.RateLimit(h.Admin.ImportText)))
	mux.HandleFunc("POST /api/admin/import/document", mw.RequireAdmin(mw.RateLimit(h.Admin.ImportDocument)))
	mux.HandleFunc("POST /api/admin/import/commit", mw.RequireAdmin(h.Admin.CommitImport))
	mux.HandleFunc("DELETE /api/admin/import", mw.RequireAdmin(h.Admin.DiscardImport))
	mux.HandleFunc("GET /api/admin/backup", mw.RequireAdmin(h.Admin.ExportBackup))
	mux.HandleFunc("POST /api/admin/backup", mw.RequireAdmin(h.Admin.ImportBackup))
}
