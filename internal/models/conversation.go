package models

// DefaultConversationTitle is used when a conversation is created without a title.
const DefaultConversationTitle = "New Conversation"

// Conversation is a titled, ordered collection of messages.
type Conversation struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Messages  []Message              `json:"messages"`
	CreatedAt string                 `json:"created_at"`
	UpdatedAt string                 `json:"updated_at"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the conversation so callers can't mutate stored state.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Metadata = cloneMap(c.Metadata)
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		m.Metadata = cloneMap(m.Metadata)
		out.Messages[i] = m
	}
	return &out
}

func cloneMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
