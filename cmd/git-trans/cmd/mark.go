package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/git-trans/internal/ledger"
)

var markCmd = &cobra.Command{
	Use:   "mark <todo|review|done> <path>...",
	Short: "Set the translation progress of files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := ledger.ParseProgress(args[0])
		if err != nil {
			return err
		}

		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		files, err := client.Mark(cmd.Context(), p, args[1:])
		if err != nil {
			return err
		}
		for _, f := range files {
			info("%s is now %s", client.Workspace().Relative(f.Path), f.Progress)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markCmd)
}
