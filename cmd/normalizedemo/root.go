// Command normalizedemo exercises the dispatch engine end-to-end against
// a JSON fixture: not part of the library's public contract, just a
// manual-testing aid, adapted from the teacher's cli/root.go cobra
// bootstrap.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arborist-dev/normalize/pkg/logger"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalizedemo",
		Short: "Run a value through the normalizer and print the resulting tree",
	}
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	cmd.PersistentFlags().Bool("log-source", false, "include source location in logs")
	cmd.AddCommand(runCmd())
	return cmd
}

func main() {
	root := RootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogging(cmd *cobra.Command) error {
	logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}
	logger.SetupLogger(logLevel, logJSON, logSource)
	return nil
}
