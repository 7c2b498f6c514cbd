package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"serena-mcp/internal/services"
	"serena-mcp/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// MaxCallBodyBytes bounds the size of a function call body.
const MaxCallBodyBytes = 10 << 20

// Dispatcher defines the interface expected from the function dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, params map[string]interface{}) (interface{}, error)
	Functions() []string
}

type MCPHandler struct {
	dispatcher Dispatcher
}

func NewMCPHandler(dispatcher Dispatcher) *MCPHandler {
	return &MCPHandler{
		dispatcher: dispatcher,
	}
}

// HandleCall handles POST /mcp/{functionName}
func (h *MCPHandler) HandleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "functionName")
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxCallBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondErrorCode(w, http.StatusRequestEntityTooLarge, "Request body too large", "payload_too_large")
			return
		}
		log.Printf("WARN [MCPHandler] HandleCall %s: failed to read body: %v", name, err)
		httputil.RespondErrorCode(w, http.StatusOK, "Invalid JSON", string(services.KindInvalidJSON))
		return
	}

	// An empty body is treated as an empty parameter object.
	params := map[string]interface{}{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			log.Printf("WARN [MCPHandler] HandleCall %s: invalid JSON body: %v", name, err)
			httputil.RespondErrorCode(w, http.StatusOK, "Invalid JSON", string(services.KindInvalidJSON))
			return
		}
	}

	result, err := h.dispatcher.Dispatch(r.Context(), name, params)
	if err != nil {
		kind, status := services.Classify(err)
		message := err.Error()
		if kind == services.KindInternal {
			message = "Internal error while handling '" + name + "'"
		}
		httputil.RespondErrorCode(w, status, message, string(kind))
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
