package middlewares

const (
	// Gin context keys.
	CtxRequestID = "request_id"
	ctxSession   = "session"
)
