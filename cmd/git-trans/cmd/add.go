package cmd

import (
	"github.com/spf13/cobra"
)

var addLock bool

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Start tracking files",
	Long: `Adds each path to the ledger, anchored at the latest revision that touched
it, and copies the file into the side-channel directory for translation. A
copy that is already there is kept.

Either every path is added or none is.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		added, err := client.Add(cmd.Context(), args, addLock)
		if err != nil {
			return err
		}

		ws := client.Workspace()
		for _, f := range added {
			info("Tracking %s at %s", ws.Relative(f.Path), short(f.TrackRev))
			detail("mirror: %s", ws.MirrorKey(f.Path))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addLock, "lock", false, "lock the files while adding them")
	rootCmd.AddCommand(addCmd)
}
