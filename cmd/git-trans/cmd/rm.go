package cmd

import (
	"github.com/spf13/cobra"
)

var rmPurge bool

var rmCmd = &cobra.Command{
	Use:     "rm <path>...",
	Aliases: []string{"remove"},
	Short:   "Stop tracking files",
	Long: `Removes each path from the ledger. The translated copy in the side-channel
directory is kept unless --purge is given, which also deletes its generated
.diff file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		removed, err := client.Remove(cmd.Context(), args, rmPurge)
		for _, f := range removed {
			info("Removed %s", client.Workspace().Relative(f.Path))
		}
		if err != nil && len(removed) > 0 {
			return reportFailures(err, "purged")
		}
		return err
	},
}

func init() {
	rmCmd.Flags().BoolVar(&rmPurge, "purge", false, "also delete the translated copy and its diff")
	rootCmd.AddCommand(rmCmd)
}
