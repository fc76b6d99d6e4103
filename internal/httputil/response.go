package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// DataResponse wraps successful payloads: {"data": ...}
type DataResponse struct {
	Data any `json:"data"`
}

// MessageResponse carries a bare message, used for deletes and errors: {"message": ...}
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondData wraps the payload in the success envelope.
func RespondData(w http.ResponseWriter, data any, statusCode int) {
	RespondJSON(w, DataResponse{Data: data}, statusCode)
}

// RespondMessage sends a plain message with the given status code.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Message: message}, statusCode)
}

// RespondError sends a JSON error response with the given message and status code.
// Errors use the same {"message": ...} shape as informational responses.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Message: message}, statusCode)
}
