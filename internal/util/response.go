package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// SuccessResponse is the uniform success envelope relayed by every gateway
// endpoint. Proxied backend responses already carry the same shape.
type SuccessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Details    any    `json:"details,omitempty"`
}

func timestamp() string { return time.Now().UTC().Format(time.RFC3339) }

// JSON writes v with the given status and a JSON content type.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes a 200 success envelope.
func Success(w http.ResponseWriter, data any) {
	SuccessWithStatus(w, http.StatusOK, "Success", data)
}

func SuccessWithStatus(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// Error writes an error envelope with the given message and status.
func Error(w http.ResponseWriter, message string, status int) {
	ErrorWithDetails(w, message, status, nil)
}

func ErrorWithDetails(w http.ResponseWriter, message string, status int, details any) {
	JSON(w, status, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: status,
			Timestamp:  timestamp(),
			Details:    details,
		},
	})
}

// WriteError serializes err through the envelope. AppErrors keep their status
// and message; anything else becomes a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		ErrorWithDetails(w, appErr.Message, appErr.StatusCode, appErr.Details)
		return
	}
	Error(w, "Internal server error", http.StatusInternalServerError)
}
