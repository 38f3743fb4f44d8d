package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tracked files changed upstream",
	Long: `Queries the repository for the latest revision of every tracked file and
shows whether its translation is still in sync. The ledger is not modified;
run 'git trans sync <path>' after updating a translation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		statuses, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}

		if len(statuses) == 0 {
			info("No tracked files.")
			return nil
		}

		ws := client.Workspace()
		fmt.Fprintf(stdout, "%-8s %-8s %-10s %-10s %s\n", "STATE", "PROGRESS", "TRACKED", "LATEST", "PATH")
		for _, s := range statuses {
			state := "synced"
			if !s.Current {
				state = "drifted"
			}
			fmt.Fprintf(stdout, "%-8s %-8s %-10s %-10s %s\n",
				state, s.File.Progress, short(s.File.TrackRev), short(s.Latest), ws.Relative(s.File.Path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
