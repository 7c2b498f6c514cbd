package integrations

import (
	"context"
	"fmt"
	"log"
	"sort"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/models"
)

// Integration defines the standard interface for all upstream service integrations.
type Integration interface {
	// CredentialName returns the name of the secret the integration reads on each call.
	CredentialName() string
}

// Registry holds the mapping between integration names and their implementations.
type Registry struct {
	integrations map[string]Integration
}

// NewRegistry creates a new integration registry.
func NewRegistry() *Registry {
	return &Registry{
		integrations: make(map[string]Integration),
	}
}

// Register adds an integration implementation to the registry.
func (r *Registry) Register(name string, integration Integration) {
	if _, exists := r.integrations[name]; exists {
		log.Printf("WARN [IntegrationRegistry] Integration '%s' is already registered. Overwriting.", name)
	}
	r.integrations[name] = integration
	log.Printf("[IntegrationRegistry] Registered integration: %s", name)
}

// Get retrieves an integration implementation from the registry by name.
func (r *Registry) Get(name string) (Integration, error) {
	integration, exists := r.integrations[name]
	if !exists {
		return nil, fmt.Errorf("no integration registered under name: %s", name)
	}
	return integration, nil
}

// Names returns the registered integration names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.integrations))
	for name := range r.integrations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status reports, for every integration, whether its credential is currently available.
// No upstream call is made.
func (r *Registry) Status(ctx context.Context, provider credentials.Provider) map[string]models.IntegrationStatus {
	out := make(map[string]models.IntegrationStatus, len(r.integrations))
	for name, integration := range r.integrations {
		_, err := provider.Token(ctx, integration.CredentialName())
		out[name] = models.IntegrationStatus{
			Credential: integration.CredentialName(),
			Configured: err == nil,
		}
	}
	return out
}
