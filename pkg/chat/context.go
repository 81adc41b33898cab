package chat

import (
	"fmt"

	"github.com/shopease/supportchat/pkg/ai"
	"github.com/shopease/supportchat/pkg/db/models"
	"github.com/shopease/supportchat/pkg/knowledge"
)

// BuildSystemPrompt assembles the instruction prompt from the role preamble,
// store facts, FAQ corpus and behavioral guidelines, in that fixed order.
func BuildSystemPrompt() string {
	return fmt.Sprintf(`You are a helpful customer support assistant for ShopEase, an online e-commerce store specializing in electronics and home goods.

## Your Role
- Provide friendly, accurate, and helpful responses to customer inquiries
- Help with order tracking, returns, product questions, and general support
- Be concise but thorough in your responses
- If you don't know something specific, acknowledge it and offer to help find the answer

## Store Information
%s

## Frequently Asked Questions
%s

## Guidelines
- Always be polite and professional
- If a customer seems frustrated, acknowledge their feelings empathetically
- For order-specific questions (tracking, status), ask for the order number if not provided
- Do not make up information about specific orders - you don't have access to order data
- If an issue requires human intervention (complex refunds, disputes), let them know a support agent will follow up
- Keep responses concise - aim for 2-4 sentences unless more detail is needed
- Use bullet points for listing multiple items or steps`,
		knowledge.StoreContext(), knowledge.FAQContext())
}

// BuildContext produces the ordered message sequence for one completion call:
// the system prompt, then the most recent maxContextMessages history entries
// in chronological order, then the new user message. System-role entries in
// stored history are dropped. Pure function; stored messages are never
// mutated.
func BuildContext(history []models.Message, newUserMessage string, maxContextMessages int) []ai.ChatMessage {
	messages := []ai.ChatMessage{
		{Role: models.RoleSystem, Content: BuildSystemPrompt()},
	}

	recent := make([]models.Message, 0, len(history))
	for _, m := range history {
		if m.Role == models.RoleSystem {
			continue
		}
		recent = append(recent, m)
	}
	if maxContextMessages >= 0 && len(recent) > maxContextMessages {
		recent = recent[len(recent)-maxContextMessages:]
	}

	for _, m := range recent {
		messages = append(messages, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}

	messages = append(messages, ai.ChatMessage{Role: models.RoleUser, Content: newUserMessage})

	return messages
}
