package flags

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/shopease/supportchat/pkg/ai"
)

// OpenAIFlags contains flags for the completion provider. The API key is only
// accepted via the OPENAI_API_KEY environment variable so it never shows up
// in process listings.
type OpenAIFlags struct {
	Model     string
	MaxTokens int
}

func NewOpenAIFlags() *OpenAIFlags {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIFlags{
		Model:     model,
		MaxTokens: envInt("OPENAI_MAX_TOKENS", 500),
	}
}

func (f *OpenAIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Model, "openai-model", f.Model, "The OpenAI model used for replies")
	fs.IntVar(&f.MaxTokens, "openai-max-tokens", f.MaxTokens, "Maximum output tokens per completion")
}

func (f *OpenAIFlags) Validate() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	return nil
}

// Configured reports whether the provider credential is present, for the
// health endpoint.
func (f *OpenAIFlags) Configured() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}

func (f *OpenAIFlags) GetCompletionClient() *ai.Client {
	return ai.NewClient(os.Getenv("OPENAI_API_KEY"), f.Model, f.MaxTokens)
}
