package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	api_models "serena-mcp/internal/models"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		log.Printf("Error encoding JSON response: %v", err)
		// Can't write header again here, just log the error
	}
}

// RespondError writes a JSON error response with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondErrorCode(w, statusCode, message, "")
}

// RespondErrorCode writes a JSON error response carrying a machine readable code.
func RespondErrorCode(w http.ResponseWriter, statusCode int, message, code string) {
	resp := api_models.ErrorResponse{Success: false, Error: message, Code: code}
	RespondJSON(w, statusCode, resp)
}
