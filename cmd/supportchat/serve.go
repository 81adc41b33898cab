package main

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shopease/supportchat/pkg/chat"
	"github.com/shopease/supportchat/pkg/chatserver"
	"github.com/shopease/supportchat/pkg/flags"
)

type ServerFlags struct {
	DBFlags     *flags.PostgresFlags
	OpenAIFlags *flags.OpenAIFlags
	ChatFlags   *flags.ChatFlags

	ListenAddr  string
	MetricsAddr string
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		DBFlags:     flags.NewPostgresDatabaseFlags(),
		OpenAIFlags: flags.NewOpenAIFlags(),
		ChatFlags:   flags.NewChatFlags(),
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
	}
}

func (f *ServerFlags) BindFlags(flagSet *pflag.FlagSet) {
	f.DBFlags.BindFlags(flagSet)
	f.OpenAIFlags.BindFlags(flagSet)
	f.ChatFlags.BindFlags(flagSet)

	flagSet.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the chat API on (default :8080)")
	flagSet.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on (default :2112)")
}

func (f *ServerFlags) Validate() error {
	return f.OpenAIFlags.Validate()
}

func NewServeCommand() *cobra.Command {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the support chat API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			dbc, err := f.DBFlags.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "couldn't get DB client")
			}

			completionClient := f.OpenAIFlags.GetCompletionClient()

			chatService := chat.NewService(
				chat.NewStore(dbc),
				completionClient,
				f.ChatFlags.MaxMessageLength,
				f.ChatFlags.MaxContextMessages,
			)

			server := chatserver.NewServer(f.ListenAddr, chatService, f.OpenAIFlags.Configured())

			if f.MetricsAddr != "" {
				// Serve our metrics endpoint for prometheus to scrape
				go func() {
					http.Handle("/metrics", promhttp.Handler())
					err := http.ListenAndServe(f.MetricsAddr, nil) //nolint
					if err != nil {
						panic(err)
					}
				}()
				log.Infof("Serving metrics on %s", f.MetricsAddr)
			}

			server.Serve()
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
