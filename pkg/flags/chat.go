package flags

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// ChatFlags contains the chat pipeline bounds.
type ChatFlags struct {
	// MaxMessageLength is the longest inbound message accepted, in bytes.
	MaxMessageLength int

	// MaxContextMessages bounds how much history is replayed to the model.
	MaxContextMessages int
}

func NewChatFlags() *ChatFlags {
	return &ChatFlags{
		MaxMessageLength:   envInt("MAX_MESSAGE_LENGTH", 2000),
		MaxContextMessages: envInt("MAX_CONTEXT_MESSAGES", 20),
	}
}

func (f *ChatFlags) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&f.MaxMessageLength, "max-message-length", f.MaxMessageLength, "Maximum inbound message length")
	fs.IntVar(&f.MaxContextMessages, "max-context-messages", f.MaxContextMessages, "Maximum history entries replayed per completion")
}

func envInt(name string, defaultValue int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.WithField("var", name).Warnf("ignoring non-integer value %q", raw)
		return defaultValue
	}

	return value
}
