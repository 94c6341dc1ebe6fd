// Package cli implements the tutord command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/skanderbz/tutord/internal/config"
	"github.com/skanderbz/tutord/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	cfg config.Config
	log *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutord",
		Short: "tutord — AI tutor backend",
		Long:  "tutord answers student questions through a chain of LLM and retrieval fallbacks, with per-session conversation memory.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "tutord.yaml", "config file (defaults apply when missing)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newAskCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
