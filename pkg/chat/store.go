package chat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopease/supportchat/pkg/db"
	"github.com/shopease/supportchat/pkg/db/models"
)

// CreateMessageInput describes one message to append to a conversation.
type CreateMessageInput struct {
	ConversationID uuid.UUID
	Role           string
	Content        string
	TokensUsed     *int
	Model          *string
	Metadata       map[string]interface{}
}

// ConversationStore is the persistence surface the chat service depends on.
type ConversationStore interface {
	FindOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error)
	Messages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	CreateMessage(ctx context.Context, input CreateMessageInput) (*models.Message, error)
	Touch(ctx context.Context, conversationID uuid.UUID) error
	DeleteBySessionID(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

// Store is the postgres-backed ConversationStore.
type Store struct {
	db *db.DB
}

func NewStore(dbc *db.DB) *Store {
	return &Store{db: dbc}
}

// FindOrCreate returns the conversation for sessionID, creating it on first
// use. Concurrent first messages for the same session id race at the unique
// index; the loser's insert is a no-op and the winner's row is re-read, so at
// most one conversation is ever visible per session id.
func (s *Store) FindOrCreate(ctx context.Context, sessionID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).WithField("sessionID", sessionID).Error("error finding conversation")
		return nil, NewDatabaseError("Failed to retrieve conversation", err)
	}

	conversation = models.Conversation{
		SessionID: sessionID,
		Status:    models.ConversationStatusActive,
		Metadata:  emptyJSONB(),
	}
	res := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(&conversation)
	if res.Error != nil {
		log.WithError(res.Error).WithField("sessionID", sessionID).Error("error creating conversation")
		return nil, NewDatabaseError("Failed to create conversation", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost the race; fetch the row the other request created.
		if err := s.db.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&conversation).Error; err != nil {
			log.WithError(err).WithField("sessionID", sessionID).Error("error finding conversation after conflict")
			return nil, NewDatabaseError("Failed to retrieve conversation", err)
		}
	}

	return &conversation, nil
}

// Messages returns all persisted messages for a conversation in ascending
// creation order.
func (s *Store) Messages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.DB.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		log.WithError(err).WithField("conversationID", conversationID).Error("error fetching messages")
		return nil, NewDatabaseError("Failed to retrieve messages", err)
	}

	return messages, nil
}

func (s *Store) CreateMessage(ctx context.Context, input CreateMessageInput) (*models.Message, error) {
	message := models.Message{
		ConversationID: input.ConversationID,
		Role:           input.Role,
		Content:        input.Content,
		TokensUsed:     input.TokensUsed,
		Model:          input.Model,
		Metadata:       emptyJSONB(),
	}
	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			log.WithError(err).Error("error marshaling message metadata")
			return nil, NewDatabaseError("Failed to save message", err)
		}
		if err := message.Metadata.Set(raw); err != nil {
			log.WithError(err).Error("error setting message metadata")
			return nil, NewDatabaseError("Failed to save message", err)
		}
	}

	if err := s.db.DB.WithContext(ctx).Create(&message).Error; err != nil {
		log.WithError(err).WithField("conversationID", input.ConversationID).Error("error creating message")
		return nil, NewDatabaseError("Failed to save message", err)
	}

	return &message, nil
}

// Touch bumps the conversation's updated_at timestamp.
func (s *Store) Touch(ctx context.Context, conversationID uuid.UUID) error {
	return s.db.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

// DeleteBySessionID removes the conversation and, via the FK cascade, all of
// its messages. Deleting an unknown session id is not an error.
func (s *Store) DeleteBySessionID(ctx context.Context, sessionID string) error {
	err := s.db.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.Conversation{}).Error
	if err != nil {
		log.WithError(err).WithField("sessionID", sessionID).Error("error deleting conversation")
		return NewDatabaseError("Failed to clear conversation", err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.DB.WithContext(ctx).Exec("SELECT 1").Error
}

func emptyJSONB() pgtype.JSONB {
	var j pgtype.JSONB
	// Set only fails on unsupported source types.
	_ = j.Set([]byte("{}"))
	return j
}
