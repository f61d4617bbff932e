package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/model"
)

// ErrorResponse is the standard error body. FieldErrors carries
// per-field validation failures; BatchErrors keys them by submission
// index for batch requests.
type ErrorResponse struct {
	Error       string                         `json:"error"`
	Message     string                         `json:"message,omitempty"`
	FieldErrors model.ValidationErrors         `json:"fieldErrors,omitempty"`
	BatchErrors map[int]model.ValidationErrors `json:"batchErrors,omitempty"`
}

// SendJSONError sends a JSON error response
func SendJSONError(w http.ResponseWriter, statusCode int, err error, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   err.Error(),
		Message: message,
	})
}

// SendValidationError sends the field errors of a rejected submission.
func SendValidationError(w http.ResponseWriter, errs model.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:       "validation failed",
		FieldErrors: errs,
	})
}

// SendBatchValidationError sends per-index field errors of a rejected batch.
func SendBatchValidationError(w http.ResponseWriter, errs model.BatchValidationError) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:       "batch validation failed",
		BatchErrors: errs,
	})
}

// SendJSONSuccess sends a JSON success response
func SendJSONSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, data)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Str("category", "http").Msg("Failed to encode response")
	}
}
