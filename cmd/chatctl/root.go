package main

import (
	"fmt"
	"os"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"campus-chatbot/internal/config"
	"campus-chatbot/pkg/dialogue"
)

type rootOptions struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "chatctl",
		Short: "Operate the campus FAQ chatbot from the command line",
		Long: `chatctl loads the same intent table, conversation flows and optional
classifier as the API server. Use it to check data files before a deploy
or to try conversations without starting the server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	defaultConfig := os.Getenv("CHATBOT_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", defaultConfig, "engine config file path")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newValidateCmd(opts),
		newAskCmd(opts),
		newIntentsCmd(opts),
	)

	return root
}

func (o *rootOptions) logger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&formatter.Formatter{
		TimestampFormat: "15:04:05",
		NoColors:        true,
	})

	logger.SetLevel(logrus.WarnLevel)
	if o.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func (o *rootOptions) load(cmd *cobra.Command) (*config.EngineConfig, *dialogue.Factory, error) {
	cfg, err := config.LoadEngineConfig(o.cfgFile)
	if err != nil {
		return nil, nil, err
	}

	factory, err := config.BuildDialogue(cfg, o.logger(cmd))
	if err != nil {
		return nil, nil, fmt.Errorf("loading dialogue data: %w", err)
	}

	return cfg, factory, nil
}
