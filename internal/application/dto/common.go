package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple (ej. borrados).
type MessageResponse struct {
	Message string `json:"message"`
}

// DateLayout formato de fechas de negocio en la API (issue_date, due_date, valid_until).
const DateLayout = "2006-01-02"
