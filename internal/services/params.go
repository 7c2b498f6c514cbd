package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Params is the decoded JSON object of a function call.
type Params map[string]interface{}

// Has reports whether key is present and not null.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the string value of key, or "" if it is absent or not a string.
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// FirstString returns the first non-empty string among keys.
func (p Params) FirstString(keys ...string) string {
	for _, k := range keys {
		if s := p.String(k); s != "" {
			return s
		}
	}
	return ""
}

// RequireString returns the value of a required string parameter.
func (p Params) RequireString(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", missingParam(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter '%s' must be a string", ErrValidation, key)
	}
	if strings.TrimSpace(s) == "" {
		return "", missingParam(key)
	}
	return s, nil
}

// Object returns key as a JSON object. A missing key is (nil, nil).
func (p Params) Object(key string) (map[string]interface{}, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: parameter '%s' must be an object", ErrValidation, key)
	}
	return obj, nil
}

// Decode converts key into out by re-marshalling it through JSON.
func (p Params) Decode(key string, out interface{}) error {
	raw, err := json.Marshal(p[key])
	if err != nil {
		return fmt.Errorf("%w: parameter '%s' could not be read: %v", ErrValidation, key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: parameter '%s' has the wrong shape: %v", ErrValidation, key, err)
	}
	return nil
}

// Repository resolves the target repository from either "repo": "owner/name"
// or separate "owner" and "repo" parameters.
func (p Params) Repository() (owner, repo string, err error) {
	repo, err = p.RequireString("repo")
	if err != nil {
		return "", "", err
	}
	if owner = p.String("owner"); owner != "" {
		return owner, repo, nil
	}

	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: parameter 'repo' must be 'owner/name' when 'owner' is not given", ErrValidation)
	}
	return parts[0], parts[1], nil
}

func missingParam(key string) error {
	return fmt.Errorf("%w: missing required parameter '%s'", ErrValidation, key)
}
