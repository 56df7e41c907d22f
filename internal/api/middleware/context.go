package middleware

// Context keys written by Auth and read by RequireAdmin and the handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
)
