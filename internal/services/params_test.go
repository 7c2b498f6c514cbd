package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_RequireString(t *testing.T) {
	p := Params{"name": "x", "blank": "  ", "num": 3.0, "null": nil}

	v, err := p.RequireString("name")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	for _, key := range []string{"blank", "null", "absent"} {
		_, err := p.RequireString(key)
		assert.ErrorIs(t, err, ErrValidation, key)
		assert.Contains(t, err.Error(), "missing required parameter '"+key+"'")
	}

	_, err = p.RequireString("num")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "must be a string")
}

func TestParams_FirstString(t *testing.T) {
	p := Params{"app": "short", "app_name": ""}
	assert.Equal(t, "short", p.FirstString("app_name", "app"))
	assert.Equal(t, "", p.FirstString("missing"))
}

func TestParams_Repository(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		owner     string
		repo      string
		wantError bool
	}{
		{"slash form", Params{"repo": "acme/app"}, "acme", "app", false},
		{"slash form with padding slashes", Params{"repo": "/acme/app/"}, "acme", "app", false},
		{"separate owner", Params{"owner": "acme", "repo": "app"}, "acme", "app", false},
		{"no owner", Params{"repo": "app"}, "", "", true},
		{"too many segments", Params{"repo": "a/b/c"}, "", "", true},
		{"missing", Params{}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := tt.params.Repository()
			if tt.wantError {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestRedactParams(t *testing.T) {
	out := redactParams(Params{
		"repo":  "acme/app",
		"token": "ghp_secret",
		"files": []interface{}{
			map[string]interface{}{"path": "a.txt", "content": "private body"},
		},
	})

	assert.Contains(t, out, "acme/app")
	assert.Contains(t, out, "a.txt")
	assert.False(t, strings.Contains(out, "ghp_secret"))
	assert.False(t, strings.Contains(out, "private body"))
	assert.Equal(t, 2, strings.Count(out, "<redacted>"))
}
