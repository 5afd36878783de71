package types

type contextKey string

// Context keys propagated from the HTTP layer into logging and usage tracking.
const (
	ContextKeyUserID        contextKey = "user_id"
	ContextKeySessionID     contextKey = "session_id"
	ContextKeyRequestSource contextKey = "request_source"
	ContextKeyOperation     contextKey = "operation"
)
