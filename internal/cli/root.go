// Package cli implements the audiodump command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zrdimetc/go-audiostream/internal/logging"
)

var (
	debug  bool
	logger = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "audiodump",
	Short: "Inspect and decode WAV and ASF audio files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug mode")
}
