package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shopease/supportchat/pkg/ai"
	v1 "github.com/shopease/supportchat/pkg/apis/chat/v1"
	"github.com/shopease/supportchat/pkg/db/models"
)

// Completer generates assistant text for an assembled message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []ai.ChatMessage) (*ai.Completion, error)
}

// Service turns one inbound user message into a persisted turn pair and a
// reply. Construct one per process and share it; it holds no per-request
// state.
type Service struct {
	store     ConversationStore
	completer Completer

	maxMessageLength   int
	maxContextMessages int
}

func NewService(store ConversationStore, completer Completer, maxMessageLength, maxContextMessages int) *Service {
	return &Service{
		store:              store,
		completer:          completer,
		maxMessageLength:   maxMessageLength,
		maxContextMessages: maxContextMessages,
	}
}

func generateSessionID() string {
	return "sess_" + uuid.NewString()
}

func (s *Service) validateMessage(message string) error {
	if message == "" {
		return NewValidationError("Message is required")
	}

	trimmed := strings.TrimSpace(message)

	if len(trimmed) == 0 {
		return NewValidationError("Message cannot be empty")
	}

	if len(trimmed) > s.maxMessageLength {
		return NewValidationError(
			fmt.Sprintf("Message exceeds maximum length of %d characters", s.maxMessageLength))
	}

	return nil
}

// ProcessMessage runs the full pipeline for one turn: validate, resolve the
// conversation, build context, complete, persist both turns. If the
// completion fails nothing is persisted, so history stays coherent for the
// next turn's context window.
func (s *Service) ProcessMessage(ctx context.Context, request *v1.ChatRequest) (*v1.ChatResponse, error) {
	if err := s.validateMessage(request.Message); err != nil {
		return nil, err
	}

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	conversation, err := s.store.FindOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"sessionID":      sessionID,
		"conversationID": conversation.ID,
		"messageLength":  len(request.Message),
	}).Info("processing chat message")

	history, err := s.store.Messages(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	contextMessages := BuildContext(history, request.Message, s.maxContextMessages)

	completion, err := s.completer.Complete(ctx, contextMessages)
	if err != nil {
		return nil, classifyCompletionErr(err)
	}

	if _, err := s.store.CreateMessage(ctx, CreateMessageInput{
		ConversationID: conversation.ID,
		Role:           models.RoleUser,
		Content:        request.Message,
	}); err != nil {
		return nil, err
	}

	tokensUsed := completion.TokensUsed
	model := completion.Model
	if _, err := s.store.CreateMessage(ctx, CreateMessageInput{
		ConversationID: conversation.ID,
		Role:           models.RoleAssistant,
		Content:        completion.Content,
		TokensUsed:     &tokensUsed,
		Model:          &model,
		Metadata: map[string]interface{}{
			"finish_reason": completion.FinishReason,
		},
	}); err != nil {
		return nil, err
	}

	// Best-effort; a failed touch never affects the reply.
	if err := s.store.Touch(ctx, conversation.ID); err != nil {
		log.WithError(err).WithField("conversationID", conversation.ID).
			Warn("failed to update conversation timestamp")
	}

	log.WithFields(log.Fields{
		"sessionID":  sessionID,
		"tokensUsed": completion.TokensUsed,
	}).Info("chat message processed")

	return &v1.ChatResponse{
		Reply:     completion.Content,
		SessionID: sessionID,
	}, nil
}

// History returns the conversation's messages for clients, oldest first,
// with system-role entries filtered out.
func (s *Service) History(ctx context.Context, sessionID string) (*v1.HistoryResponse, error) {
	conversation, err := s.store.FindOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.Messages(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}

	response := &v1.HistoryResponse{
		SessionID: sessionID,
		Messages:  make([]v1.HistoryMessage, 0, len(messages)),
	}
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			continue
		}
		response.Messages = append(response.Messages, v1.HistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.CreatedAt,
		})
	}

	return response, nil
}

// Clear deletes the conversation for a session id, messages included.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.DeleteBySessionID(ctx, sessionID)
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// classifyCompletionErr maps the provider's closed failure set onto the API
// error taxonomy. Provider messages are already user-safe.
func classifyCompletionErr(err error) error {
	var provErr *ai.Error
	if !errors.As(err, &provErr) {
		return NewLLMError("An unexpected error occurred. Please try again.", err)
	}

	switch provErr.Kind {
	case ai.KindRateLimited:
		return NewRateLimitError(provErr.Message, err)
	case ai.KindUnreachable:
		return NewTimeoutError(provErr.Message, err)
	default:
		return NewLLMError(provErr.Message, err)
	}
}
