package models

import (
	"encoding/json"
)

// --- Generic Response Structs ---

// ErrorResponse defines the standard structure for dispatcher errors.
// Code is a stable machine-readable kind (e.g. "not_found"); Error is human readable.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// SuccessResponse is returned by calls that have nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// IntegrationStatus reports whether an integration has a usable credential.
type IntegrationStatus struct {
	Credential string `json:"credential"`
	Configured bool   `json:"configured"`
}

// ServerInfoResponse is the body of GET /.
type ServerInfoResponse struct {
	Name         string                       `json:"name"`
	Version      string                       `json:"version"`
	Functions    []string                     `json:"functions"`
	Integrations map[string]IntegrationStatus `json:"integrations"`
}

// --- Conversation DTOs ---

// CreateConversationResponse is returned by create_conversation.
type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Success        bool   `json:"success"`
}

// ListConversationsResponse is returned by list_conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// AddMessageResponse is returned by add_message.
type AddMessageResponse struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
}

// --- Proxy DTOs ---

// BranchResponse is returned by create_branch.
type BranchResponse struct {
	Success       bool   `json:"success"`
	Branch        string `json:"branch"`
	BaseSHA       string `json:"base_sha"`
	AlreadyExists bool   `json:"already_exists"`
}

// FileResult is the outcome of a single file write inside commit_files.
// Each result reports its own success independently of the others.
type FileResult struct {
	Path       string          `json:"path"`
	Success    bool            `json:"success"`
	StatusCode int             `json:"status_code,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// CommitFilesResponse is returned by commit_files.
type CommitFilesResponse struct {
	Success bool         `json:"success"` // true only when every file succeeded
	Branch  string       `json:"branch"`
	Results []FileResult `json:"results"`
}
