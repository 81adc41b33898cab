package v1

import "time"

// ChatRequest is the inbound payload for POST /chat/message.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the reply for a processed chat turn.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// HistoryMessage is one history entry projected for clients. System-role
// entries are never included.
type HistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse is the reply for GET /chat/history/{sessionId}.
type HistoryResponse struct {
	SessionID string           `json:"sessionId"`
	Messages  []HistoryMessage `json:"messages"`
}

// ClearResponse is the reply for DELETE /chat/clear/{sessionId}.
type ClearResponse struct {
	Success bool `json:"success"`
}

// HealthChecks reports the status of each external collaborator.
type HealthChecks struct {
	Database bool `json:"database"`
	OpenAI   bool `json:"openai"`
}

// HealthResponse is the reply for GET /health.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Checks    HealthChecks `json:"checks"`
}

// ErrorDetail carries a stable machine-readable code and a safe message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body for every failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}
