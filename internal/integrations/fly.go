package integrations

import (
	"context"
	"log"
	"net/http"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/integrations/upstream"
	integration_models "serena-mcp/internal/models/integrations"
)

const (
	// DefaultFlyAPIURL is the Fly.io GraphQL endpoint.
	DefaultFlyAPIURL = "https://api.fly.io/graphql"
	// DefaultDeployStrategy replaces machines without a rolling wait.
	DefaultDeployStrategy = "IMMEDIATE"

	deployImageMutation = `mutation($input: DeployImageInput!) {
  deployImage(input: $input) {
    release { id status version }
  }
}`
)

// Ensure FlyIntegration implements the Integration interface.
var _ Integration = (*FlyIntegration)(nil)

// FlyIntegration starts image deploys on Fly.io.
type FlyIntegration struct {
	client    *upstream.Client
	creds     credentials.Provider
	apiURL    string
	tokenName string
}

// NewFlyIntegration creates a Fly helper. Empty apiURL and tokenName fall back to defaults.
func NewFlyIntegration(client *upstream.Client, creds credentials.Provider, apiURL, tokenName string) *FlyIntegration {
	if apiURL == "" {
		apiURL = DefaultFlyAPIURL
	}
	if tokenName == "" {
		tokenName = credentials.FlyTokenEnv
	}
	return &FlyIntegration{
		client:    client,
		creds:     creds,
		apiURL:    apiURL,
		tokenName: tokenName,
	}
}

// CredentialName implements Integration.
func (f *FlyIntegration) CredentialName() string {
	return f.tokenName
}

// DeployApp asks Fly to release Image for AppName. Only the initiation result is
// returned; release progress is not polled.
func (f *FlyIntegration) DeployApp(ctx context.Context, req integration_models.DeployRequest) (*upstream.Response, error) {
	token, err := f.creds.Token(ctx, f.tokenName)
	if err != nil {
		return nil, err
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = DefaultDeployStrategy
	}

	log.Printf("[FlyIntegration] DeployApp: deploying %s to %s (%s)", req.Image, req.AppName, strategy)
	return f.client.Do(ctx, &upstream.Request{
		Target: "fly",
		Method: http.MethodPost,
		URL:    f.apiURL,
		Body: map[string]interface{}{
			"query": deployImageMutation,
			"variables": map[string]interface{}{
				"input": map[string]string{
					"appId":    req.AppName,
					"image":    req.Image,
					"strategy": strategy,
				},
			},
		},
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
			"User-Agent":    userAgent,
		},
	})
}
