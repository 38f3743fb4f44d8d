package cmd

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync <path>...",
	Short: "Mark translations as up to date with upstream",
	Long: `Re-anchors each path at the latest revision that touched it and marks it
synced. Run it after bringing a translation up to date with the upstream
changes shown by 'diff'.

Either every path is synced or none is.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		synced, err := client.Sync(cmd.Context(), args)
		if err != nil {
			return err
		}

		for _, f := range synced {
			info("Synced %s at %s", client.Workspace().Relative(f.Path), short(f.TrackRev))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
