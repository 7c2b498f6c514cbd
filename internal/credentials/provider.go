package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingCredential is returned when a required secret is absent.
var ErrMissingCredential = errors.New("missing credential")

// Default environment variable names for the upstream tokens.
const (
	GithubTokenEnv = "GITHUB_TOKEN"
	FlyTokenEnv    = "FLY_API_TOKEN"
)

// Provider resolves named secrets.
type Provider interface {
	// Token returns the secret stored under name, or an error wrapping ErrMissingCredential.
	Token(ctx context.Context, name string) (string, error)
}

// EnvProvider reads secrets from the process environment on every call.
// There is no caching, so rotated secrets are picked up immediately.
type EnvProvider struct{}

// NewEnvProvider creates a Provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Token implements Provider.
func (p *EnvProvider) Token(ctx context.Context, name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingCredential, name)
	}
	return strings.TrimSpace(value), nil
}

// StaticProvider serves secrets from a fixed map. Useful in tests.
type StaticProvider map[string]string

// Token implements Provider.
func (p StaticProvider) Token(ctx context.Context, name string) (string, error) {
	value := p[name]
	if value == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingCredential, name)
	}
	return value, nil
}
