package handlers

const (
	SessionCookieName = "session_token"

	// maxJSONBody caps request bodies that are not file uploads
	maxJSONBody = 2 << 20

	ErrInvalidJSON         = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests, please slow down"
	ErrAIUnavailable       = "AI features are not configured"
)
