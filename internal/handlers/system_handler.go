package handlers

import (
	"net/http"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/integrations"
	"serena-mcp/internal/models"
	"serena-mcp/pkg/httputil"
)

// ServerName is reported by GET /.
const ServerName = "serena-mcp"

type SystemHandler struct {
	dispatcher Dispatcher
	registry   *integrations.Registry
	creds      credentials.Provider
	version    string
}

func NewSystemHandler(dispatcher Dispatcher, registry *integrations.Registry, creds credentials.Provider, version string) *SystemHandler {
	return &SystemHandler{
		dispatcher: dispatcher,
		registry:   registry,
		creds:      creds,
		version:    version,
	}
}

// HandleHealth handles GET /health
func (h *SystemHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// HandleRoot handles GET /
func (h *SystemHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	info := models.ServerInfoResponse{
		Name:         ServerName,
		Version:      h.version,
		Functions:    h.dispatcher.Functions(),
		Integrations: map[string]models.IntegrationStatus{},
	}
	if h.registry != nil && h.creds != nil {
		info.Integrations = h.registry.Status(r.Context(), h.creds)
	}
	httputil.RespondJSON(w, http.StatusOK, info)
}
