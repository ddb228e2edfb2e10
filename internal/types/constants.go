package types

const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "request_id"
)

const (
	TokenCookieName = "token"
	RequestIDHeader = "X-Request-ID"
)
