package response

import "time"

// ErrorResponse is the error body returned by every failed request
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// NewErrorResponse builds an error body for the given status and message
func NewErrorResponse(status int, errText, msg, path string) *ErrorResponse {
	return &ErrorResponse{
		Status:    status,
		Error:     errText,
		Message:   msg,
		Path:      path,
		Timestamp: time.Now().UTC(),
	}
}
