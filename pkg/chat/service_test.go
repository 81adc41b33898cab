package chat

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopease/supportchat/pkg/ai"
	v1 "github.com/shopease/supportchat/pkg/apis/chat/v1"
	"github.com/shopease/supportchat/pkg/db/models"
)

// memStore is an in-memory ConversationStore for exercising the service
// pipeline without postgres.
type memStore struct {
	conversations map[string]*models.Conversation
	messages      map[uuid.UUID][]models.Message

	touchErr   error
	pingErr    error
	touchCalls int
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		conversations: map[string]*models.Conversation{},
		messages:      map[uuid.UUID][]models.Message{},
		clock:         time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) FindOrCreate(_ context.Context, sessionID string) (*models.Conversation, error) {
	if conversation, ok := s.conversations[sessionID]; ok {
		return conversation, nil
	}
	conversation := &models.Conversation{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    models.ConversationStatusActive,
		CreatedAt: s.tick(),
	}
	s.conversations[sessionID] = conversation
	return conversation, nil
}

func (s *memStore) Messages(_ context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	return s.messages[conversationID], nil
}

func (s *memStore) CreateMessage(_ context.Context, input CreateMessageInput) (*models.Message, error) {
	message := models.Message{
		ID:             uuid.New(),
		ConversationID: input.ConversationID,
		Role:           input.Role,
		Content:        input.Content,
		TokensUsed:     input.TokensUsed,
		Model:          input.Model,
		CreatedAt:      s.tick(),
	}
	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, err
		}
		if err := message.Metadata.Set(raw); err != nil {
			return nil, err
		}
	}
	s.messages[input.ConversationID] = append(s.messages[input.ConversationID], message)
	return &message, nil
}

func (s *memStore) Touch(_ context.Context, _ uuid.UUID) error {
	s.touchCalls++
	return s.touchErr
}

func (s *memStore) DeleteBySessionID(_ context.Context, sessionID string) error {
	if conversation, ok := s.conversations[sessionID]; ok {
		delete(s.messages, conversation.ID)
		delete(s.conversations, sessionID)
	}
	return nil
}

func (s *memStore) Ping(_ context.Context) error {
	return s.pingErr
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) totalMessages() int {
	total := 0
	for _, msgs := range s.messages {
		total += len(msgs)
	}
	return total
}

type fakeCompleter struct {
	completion *ai.Completion
	err        error

	calls        int
	lastMessages []ai.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.ChatMessage) (*ai.Completion, error) {
	f.calls++
	f.lastMessages = messages
	if f.err != nil {
		return nil, f.err
	}
	return f.completion, nil
}

func okCompleter() *fakeCompleter {
	return &fakeCompleter{
		completion: &ai.Completion{
			Content:      "Our return policy allows returns within 30 days.",
			TokensUsed:   42,
			Model:        "gpt-4o-mini",
			FinishReason: "stop",
		},
	}
}

func newTestService(store ConversationStore, completer Completer) *Service {
	return NewService(store, completer, 2000, 20)
}

func TestProcessMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		message string
		maxLen  int
		wantErr bool
	}{
		{name: "missing message", message: "", maxLen: 10, wantErr: true},
		{name: "whitespace only", message: "   \t\n ", maxLen: 10, wantErr: true},
		{name: "exactly max length", message: strings.Repeat("a", 10), maxLen: 10, wantErr: false},
		{name: "one over max length", message: strings.Repeat("a", 11), maxLen: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			completer := okCompleter()
			service := NewService(store, completer, tt.maxLen, 20)

			_, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: tt.message})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, CodeValidationError, apiErr.Code)
			assert.Equal(t, 400, apiErr.Status)

			// Fail fast: no store or provider call before validation passes.
			assert.Equal(t, 0, completer.calls)
			assert.Empty(t, store.conversations)
			assert.Equal(t, 0, store.totalMessages())
		})
	}
}

func TestProcessMessageGeneratesSessionID(t *testing.T) {
	store := newMemStore()
	service := newTestService(store, okCompleter())

	response, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "What is your return policy?"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(response.SessionID, "sess_"), "generated session id should carry the sess_ prefix")
	assert.NotEmpty(t, response.Reply)
}

func TestProcessMessagePersistsTurnPair(t *testing.T) {
	store := newMemStore()
	completer := okCompleter()
	service := newTestService(store, completer)

	response, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "hello", SessionID: "sess_abc"})
	require.NoError(t, err)
	assert.Equal(t, "sess_abc", response.SessionID)

	conversation := store.conversations["sess_abc"]
	require.NotNil(t, conversation)
	messages := store.messages[conversation.ID]
	require.Len(t, messages, 2)

	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Nil(t, messages[0].TokensUsed)

	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, completer.completion.Content, messages[1].Content)
	require.NotNil(t, messages[1].TokensUsed)
	assert.Equal(t, 42, *messages[1].TokensUsed)
	require.NotNil(t, messages[1].Model)
	assert.Equal(t, "gpt-4o-mini", *messages[1].Model)

	var metadata map[string]interface{}
	require.NoError(t, json.Unmarshal(messages[1].Metadata.Bytes, &metadata))
	assert.Equal(t, "stop", metadata["finish_reason"])

	assert.True(t, messages[0].CreatedAt.Before(messages[1].CreatedAt))
	assert.Equal(t, 1, store.touchCalls)
}

func TestProcessMessageSendsWindowedContext(t *testing.T) {
	store := newMemStore()
	completer := okCompleter()
	service := NewService(store, completer, 2000, 2)

	conversation, err := store.FindOrCreate(context.Background(), "sess_ctx")
	require.NoError(t, err)
	for _, role := range []string{models.RoleUser, models.RoleAssistant, models.RoleUser, models.RoleAssistant} {
		_, err := store.CreateMessage(context.Background(), CreateMessageInput{
			ConversationID: conversation.ID,
			Role:           role,
			Content:        role + " turn",
		})
		require.NoError(t, err)
	}

	_, err = service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "latest", SessionID: "sess_ctx"})
	require.NoError(t, err)

	// system + 2 most recent history entries + new message
	require.Len(t, completer.lastMessages, 4)
	assert.Equal(t, models.RoleSystem, completer.lastMessages[0].Role)
	assert.Equal(t, models.RoleUser, completer.lastMessages[1].Role)
	assert.Equal(t, models.RoleAssistant, completer.lastMessages[2].Role)
	assert.Equal(t, "latest", completer.lastMessages[3].Content)
}

func TestProcessMessageCompletionFailureLeavesNoOrphans(t *testing.T) {
	tests := []struct {
		name         string
		kind         ai.Kind
		expectedCode string
	}{
		{name: "rate limited", kind: ai.KindRateLimited, expectedCode: CodeRateLimitExceeded},
		{name: "unreachable", kind: ai.KindUnreachable, expectedCode: CodeTimeoutError},
		{name: "empty response", kind: ai.KindEmptyResponse, expectedCode: CodeLLMError},
		{name: "misconfigured", kind: ai.KindMisconfigured, expectedCode: CodeLLMError},
		{name: "unavailable", kind: ai.KindUnavailable, expectedCode: CodeLLMError},
		{name: "unexpected", kind: ai.KindUnexpected, expectedCode: CodeLLMError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			completer := &fakeCompleter{err: &ai.Error{Kind: tt.kind, Message: "safe message"}}
			service := newTestService(store, completer)

			_, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "hello", SessionID: "sess_fail"})

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.expectedCode, apiErr.Code)
			assert.Equal(t, "safe message", apiErr.Message)

			// A failed generation must not leave a dangling user message.
			assert.Equal(t, 0, store.totalMessages())
			assert.Equal(t, 0, store.touchCalls)
		})
	}
}

func TestProcessMessageTouchFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.touchErr = assert.AnError
	service := newTestService(store, okCompleter())

	response, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "hello", SessionID: "sess_touch"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Reply)
	assert.Equal(t, 2, store.totalMessages())
}

func TestFindOrCreateIsIdempotentPerSession(t *testing.T) {
	store := newMemStore()
	service := newTestService(store, okCompleter())

	_, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "first", SessionID: "sess_same"})
	require.NoError(t, err)
	_, err = service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "second", SessionID: "sess_same"})
	require.NoError(t, err)

	require.Len(t, store.conversations, 1)
	conversation := store.conversations["sess_same"]
	assert.Len(t, store.messages[conversation.ID], 4)
}

func TestHistoryProjection(t *testing.T) {
	store := newMemStore()
	service := newTestService(store, okCompleter())

	conversation, err := store.FindOrCreate(context.Background(), "sess_hist")
	require.NoError(t, err)
	for _, role := range []string{models.RoleUser, models.RoleSystem, models.RoleAssistant} {
		_, err := store.CreateMessage(context.Background(), CreateMessageInput{
			ConversationID: conversation.ID,
			Role:           role,
			Content:        role + " content",
		})
		require.NoError(t, err)
	}

	history, err := service.History(context.Background(), "sess_hist")
	require.NoError(t, err)

	assert.Equal(t, "sess_hist", history.SessionID)
	require.Len(t, history.Messages, 2, "system entries are filtered from history output")
	assert.Equal(t, models.RoleUser, history.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, history.Messages[1].Role)
	assert.True(t, history.Messages[0].Timestamp.Before(history.Messages[1].Timestamp))
}

func TestHistoryForNewSessionIsEmpty(t *testing.T) {
	store := newMemStore()
	service := newTestService(store, okCompleter())

	history, err := service.History(context.Background(), "sess_new")
	require.NoError(t, err)
	assert.Equal(t, "sess_new", history.SessionID)
	assert.Empty(t, history.Messages)
}

func TestClearRemovesConversation(t *testing.T) {
	store := newMemStore()
	service := newTestService(store, okCompleter())

	_, err := service.ProcessMessage(context.Background(), &v1.ChatRequest{Message: "hello", SessionID: "sess_clear"})
	require.NoError(t, err)

	require.NoError(t, service.Clear(context.Background(), "sess_clear"))

	history, err := service.History(context.Background(), "sess_clear")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}
