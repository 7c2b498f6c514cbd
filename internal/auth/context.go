package auth

import (
	"context"
)

// --- Context Helper Functions ---

// GetClientIDFromContext retrieves the authenticated client ID from the request context.
// Returns the ID and true if found, otherwise "" and false.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok && clientID != ""
}

// WithClientID returns a copy of ctx carrying clientID.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDKey, clientID)
}
