package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

var sensitiveParams = map[string]struct{}{
	"token":         {},
	"authorization": {},
	"password":      {},
	"secret":        {},
	"content":       {},
}

// redactParams renders params for logging with sensitive values hidden, at any depth.
func redactParams(params Params) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(redactValue(map[string]interface{}(params))); err != nil {
		return fmt.Sprintf("<unprintable: %v>", err)
	}
	return strings.TrimSpace(buf.String())
}

func redactValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			if _, ok := sensitiveParams[strings.ToLower(k)]; ok && inner != nil {
				out[k] = "<redacted>"
				continue
			}
			out[k] = redactValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = redactValue(inner)
		}
		return out
	default:
		return v
	}
}
