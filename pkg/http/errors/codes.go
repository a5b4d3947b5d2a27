package errors

// Error codes for standardized error responses.
const (
	// Authentication errors
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeInvalidToken = "invalid_token"
	ErrCodeTokenExpired = "token_expired"

	// Validation errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Session errors
	ErrCodeSessionStartFailed = "session_start_failed"
	ErrCodeSessionNotFound    = "session_not_found"
	ErrCodeFetchFailed        = "fetch_failed"
	ErrCodeEmptyCatalog       = "empty_catalog"
	ErrCodeStoreFailed        = "store_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"

	// Leaderboard / score errors
	ErrCodeScoreFetchFailed       = "score_fetch_failed"
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
)
