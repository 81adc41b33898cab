package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
)

// Conversation statuses.
const (
	ConversationStatusActive   = "active"
	ConversationStatusClosed   = "closed"
	ConversationStatusArchived = "archived"
)

// Message roles. The messages table check-constrains role to these values.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Conversation groups all messages exchanged under one session. At most one
// conversation exists per session_id, enforced by the unique index plus the
// store's find-or-create conflict handling.
type Conversation struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// SessionID is the opaque client-correlatable key for this conversation.
	SessionID string `json:"session_id" gorm:"uniqueIndex;not null"`

	Status string `json:"status" gorm:"not null;default:active"`

	// Metadata stores additional information like widget placement, page context, etc
	Metadata pgtype.JSONB `json:"metadata,omitempty" gorm:"type:jsonb;default:'{}'"`

	Messages []Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Message is one turn entry in a conversation. Messages are append-only and
// never updated after creation; ordering is by created_at ascending.
type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;index;not null"`

	Role    string `json:"role" gorm:"not null;check:role IN ('user', 'assistant', 'system')"`
	Content string `json:"content" gorm:"not null"`

	// TokensUsed and Model are only recorded on assistant messages.
	TokensUsed *int    `json:"tokens_used,omitempty"`
	Model      *string `json:"model,omitempty"`

	Metadata pgtype.JSONB `json:"metadata,omitempty" gorm:"type:jsonb;default:'{}'"`
}
