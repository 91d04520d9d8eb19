package command

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/maelgo/mnode/pkg/node"
	"github.com/maelgo/mnode/pkg/version"
)

var showVersion *bool

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log", "info", "Log level (debug, info, warn, error)")

	showVersion = rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version and exit")
}

func initConfig() {
	viper.BindPFlags(rootCmd.PersistentFlags())
}

var rootCmd = &cobra.Command{
	Use:   "mnode",
	Short: "Single node speaking the line-delimited JSON test protocol",
	Long: "mnode reads one JSON message per line from stdin, answers init, echo and " +
		"generate requests on stdout, and logs diagnostics to stderr.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if *showVersion {
			fmt.Println(version.Version)

			return nil
		}

		logger := logrus.New()
		logger.Out = os.Stderr

		level, err := logrus.ParseLevel(viper.GetString("log"))
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		logger.SetLevel(level)

		n := node.New(nil, logger)

		if err := n.Run(os.Stdin, os.Stdout); err != nil {
			logger.WithError(err).Error("node terminated")

			return err
		}

		return nil
	},
}

// Execute runs the root command and exits non-zero on any fatal failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
