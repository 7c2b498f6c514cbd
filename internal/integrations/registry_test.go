package integrations

import (
	"context"
	"testing"
	"time"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/integrations/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	client := upstream.NewClient(time.Second, nil)
	creds := credentials.StaticProvider{credentials.GithubTokenEnv: "gh"}

	reg := NewRegistry()
	reg.Register("github", NewGithubIntegration(client, creds, "", ""))
	reg.Register("fly", NewFlyIntegration(client, creds, "", ""))

	assert.Equal(t, []string{"fly", "github"}, reg.Names())

	gh, err := reg.Get("github")
	require.NoError(t, err)
	assert.Equal(t, credentials.GithubTokenEnv, gh.CredentialName())

	_, err = reg.Get("gitlab")
	assert.Error(t, err)

	status := reg.Status(context.Background(), creds)
	assert.True(t, status["github"].Configured)
	assert.False(t, status["fly"].Configured)
	assert.Equal(t, credentials.FlyTokenEnv, status["fly"].Credential)
}
