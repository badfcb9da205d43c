package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // message safe to show to the client
	Fields    map[string]string // per-field validation errors (optional)
	Err       error             // internal error (for logs only)
}
