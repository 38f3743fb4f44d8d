package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/git-trans/pkg/gittrans"
)

var showCmd = &cobra.Command{
	Use:   "show <state>",
	Short: "List the files in a given state",
	Long: fmt.Sprintf(`Lists the tracked files in state, one of: %s.

The synced and unsynced states query the repository for the latest revision
of every file; the others read the ledger only.`, joinStates()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := gittrans.ParseState(args[0])
		if err != nil {
			return err
		}

		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		files, err := client.Show(cmd.Context(), state)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			info("No files are in the %s state.", state)
			return nil
		}
		ws := client.Workspace()
		for _, f := range files {
			info("%s", entryLine(f, ws.Relative(f.Path)))
		}
		return nil
	},
}

func joinStates() string {
	var s string
	for i, st := range gittrans.States() {
		if i > 0 {
			s += ", "
		}
		s += string(st)
	}
	return s
}

func init() {
	rootCmd.AddCommand(showCmd)
}
