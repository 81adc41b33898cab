package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopease/supportchat/pkg/db/models"
)

func historyOf(roles ...string) []models.Message {
	messages := make([]models.Message, 0, len(roles))
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	for i, role := range roles {
		messages = append(messages, models.Message{
			Role:      role,
			Content:   fmt.Sprintf("%s message %d", role, i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return messages
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt()

	// Fixed assembly order: role, store facts, FAQ, guidelines.
	sections := []string{"## Your Role", "## Store Information", "## Frequently Asked Questions", "## Guidelines"}
	lastIndex := -1
	for _, section := range sections {
		index := strings.Index(prompt, section)
		require.GreaterOrEqual(t, index, 0, "missing section %q", section)
		assert.Greater(t, index, lastIndex, "section %q out of order", section)
		lastIndex = index
	}

	assert.Equal(t, prompt, BuildSystemPrompt(), "system prompt must be deterministic")
}

func TestBuildContextWindowing(t *testing.T) {
	tests := []struct {
		name          string
		historyLength int
		maxContext    int
	}{
		{name: "empty history", historyLength: 0, maxContext: 20},
		{name: "history below bound", historyLength: 5, maxContext: 20},
		{name: "history at bound", historyLength: 20, maxContext: 20},
		{name: "history above bound", historyLength: 35, maxContext: 20},
		{name: "bound of one", historyLength: 10, maxContext: 1},
		{name: "bound of zero", historyLength: 10, maxContext: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := make([]string, 0, tt.historyLength)
			for i := 0; i < tt.historyLength; i++ {
				if i%2 == 0 {
					roles = append(roles, models.RoleUser)
				} else {
					roles = append(roles, models.RoleAssistant)
				}
			}
			history := historyOf(roles...)

			result := BuildContext(history, "new question", tt.maxContext)

			expectedWindow := tt.historyLength
			if expectedWindow > tt.maxContext {
				expectedWindow = tt.maxContext
			}
			require.Len(t, result, 1+expectedWindow+1)

			assert.Equal(t, models.RoleSystem, result[0].Role)
			assert.Equal(t, models.RoleUser, result[len(result)-1].Role)
			assert.Equal(t, "new question", result[len(result)-1].Content)

			// The window is the most recent entries in original order.
			for i := 0; i < expectedWindow; i++ {
				expected := history[tt.historyLength-expectedWindow+i]
				assert.Equal(t, expected.Role, result[1+i].Role)
				assert.Equal(t, expected.Content, result[1+i].Content)
			}
		})
	}
}

func TestBuildContextFiltersSystemRole(t *testing.T) {
	history := historyOf(models.RoleUser, models.RoleSystem, models.RoleAssistant, models.RoleSystem, models.RoleUser)

	result := BuildContext(history, "followup", 20)

	// 1 system prompt + 3 non-system history entries + new message.
	require.Len(t, result, 5)
	for _, m := range result[1 : len(result)-1] {
		assert.NotEqual(t, models.RoleSystem, m.Role, "stored system entries must not leak into the window")
	}
}

func TestBuildContextFilterRunsBeforeWindowing(t *testing.T) {
	// System entries are dropped before the window is cut, so they never
	// consume window slots.
	history := historyOf(
		models.RoleUser, models.RoleAssistant,
		models.RoleSystem, models.RoleSystem, models.RoleSystem,
		models.RoleUser, models.RoleAssistant,
	)

	result := BuildContext(history, "next", 4)

	require.Len(t, result, 1+4+1)
	assert.Equal(t, "user message 0", result[1].Content)
	assert.Equal(t, "assistant message 1", result[2].Content)
	assert.Equal(t, "user message 5", result[3].Content)
	assert.Equal(t, "assistant message 6", result[4].Content)
}

func TestBuildContextDoesNotMutateHistory(t *testing.T) {
	history := historyOf(models.RoleUser, models.RoleAssistant, models.RoleUser)
	before := make([]models.Message, len(history))
	copy(before, history)

	BuildContext(history, "question", 2)

	assert.Equal(t, before, history)
}
