package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvProvider_Token(t *testing.T) {
	p := NewEnvProvider()
	ctx := context.Background()

	t.Run("present", func(t *testing.T) {
		t.Setenv("SERENA_TEST_TOKEN", " abc123 ")
		token, err := p.Token(ctx, "SERENA_TEST_TOKEN")
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("blank", func(t *testing.T) {
		t.Setenv("SERENA_TEST_TOKEN", "   ")
		_, err := p.Token(ctx, "SERENA_TEST_TOKEN")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("absent", func(t *testing.T) {
		_, err := p.Token(ctx, "SERENA_TEST_TOKEN_DEFINITELY_UNSET")
		require.ErrorIs(t, err, ErrMissingCredential)
		assert.Contains(t, err.Error(), "SERENA_TEST_TOKEN_DEFINITELY_UNSET")
	})
}

func TestEnvProvider_ReadsEveryCall(t *testing.T) {
	p := NewEnvProvider()
	ctx := context.Background()

	t.Setenv("SERENA_ROTATING", "first")
	first, err := p.Token(ctx, "SERENA_ROTATING")
	require.NoError(t, err)

	t.Setenv("SERENA_ROTATING", "second")
	second, err := p.Token(ctx, "SERENA_ROTATING")
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
}

func TestStaticProvider_Token(t *testing.T) {
	p := StaticProvider{GithubTokenEnv: "gh-token"}

	token, err := p.Token(context.Background(), GithubTokenEnv)
	require.NoError(t, err)
	assert.Equal(t, "gh-token", token)

	_, err = p.Token(context.Background(), FlyTokenEnv)
	assert.ErrorIs(t, err, ErrMissingCredential)
}
