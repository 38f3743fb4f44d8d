package cmd

import (
	"github.com/spf13/cobra"
)

var lsAll bool

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List tracked files and their stored state",
	Long: `Lists the tracked files under path (default: the current directory) with
their stored state:

  T/R/D  progress: Todo, Review or Done
  S      synced when last checked
  L      locked

The synced flag is the value stored by the last add or sync; use 'status'
to query the repository.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		var dir string
		if len(args) > 0 {
			dir = args[0]
		}
		files, err := client.List(cmd.Context(), dir, lsAll)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			info("No tracked files.")
			return nil
		}
		ws := client.Workspace()
		for _, f := range files {
			info("%s", entryLine(f, ws.Relative(f.Path)))
			detail("tracked at %s", f.TrackRev)
		}
		return nil
	},
}

func init() {
	lsCmd.Flags().BoolVar(&lsAll, "all", false, "list every tracked file in the repository")
	rootCmd.AddCommand(lsCmd)
}
