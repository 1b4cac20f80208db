package models

// Turn roles. Histories only ever contain these two.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// SessionTurn is one message in a session's conversation history.
// Turns are append-only; a session is only ever cleared whole.
type SessionTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ChatRequest struct {
	Query string `json:"query" binding:"required,min=1,max=2000"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []SessionTurn `json:"messages"`
}
