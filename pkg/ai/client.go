package ai

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var completionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "supportchat_completion_duration_seconds",
	Help:    "Latency of completion provider calls, successes only.",
	Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
})

const (
	// Sampling temperature and request timeout are fixed; only the model and
	// output budget vary by deployment.
	temperature    = 0.7
	requestTimeout = 30 * time.Second
	maxRetries     = 2
)

// ChatMessage is the transient role/content pair submitted to the provider.
// Unlike a persisted message it carries no id, timestamps, or metadata.
type ChatMessage struct {
	Role    string
	Content string
}

// Completion is the normalized result of one provider call.
type Completion struct {
	Content      string
	TokensUsed   int
	Model        string
	FinishReason string
}

// Client wraps the OpenAI client. Create one per process and share it; the
// underlying client is safe for concurrent use and retries transient failures
// internally.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewClient(apiKey, model string, maxTokens int) *Client {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(requestTimeout),
		option.WithMaxRetries(maxRetries),
	)
	return &Client{client: &client, model: model, maxTokens: maxTokens}
}

// Complete submits the assembled message sequence and returns a normalized
// completion, or an *Error carrying one of the Kind values.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (*Completion, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		Model:       c.model,
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		Temperature: openai.Float(temperature),
	}

	for _, m := range messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		classified := classifyErr(err)
		log.WithError(err).WithField("kind", classified.Kind).Error("completion request failed")
		return nil, classified
	}
	completionDuration.Observe(time.Since(start).Seconds())
	log.WithField("model", resp.Model).Debugf("completion returned in %+v", time.Since(start))

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, newError(KindEmptyResponse, "Empty response from AI service", nil)
	}

	choice := resp.Choices[0]

	finishReason := string(choice.FinishReason)
	if finishReason == "" {
		finishReason = "unknown"
	}

	return &Completion{
		Content:      choice.Message.Content,
		TokensUsed:   int(resp.Usage.TotalTokens),
		Model:        resp.Model,
		FinishReason: finishReason,
	}, nil
}
