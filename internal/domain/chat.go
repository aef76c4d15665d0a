package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// HasUserTurn reports whether at least one message was authored by the user.
func HasUserTurn(messages []ChatMessage) bool {
	for _, m := range messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}
