package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log [path]",
	Short: "Show the history of the translations",
	Long: `Shows the one-line commit history of path, or of the side-channel
directory when no path is given. The number of entries defaults to
log_limit from the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		var path string
		if len(args) > 0 {
			path = args[0]
		}
		out, err := client.Log(cmd.Context(), path, logLimit)
		if err != nil {
			return err
		}
		if out == "" {
			info("No history.")
			return nil
		}
		fmt.Fprintln(stdout, out)
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "max-count", "n", 0, "number of entries to show")
	rootCmd.AddCommand(logCmd)
}
