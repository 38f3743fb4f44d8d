package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bianoble/git-trans/pkg/gittrans"
)

var diffWrite bool

var diffCmd = &cobra.Command{
	Use:   "diff <path>",
	Short: "Show upstream changes to a file since it was synced",
	Long: `Shows the changes to path between the revision its translation is anchored
at and the latest revision that touched it. With --write the diff is saved
as <path>.diff in the side-channel directory instead, like 'gendiff'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(cmd, args[0], diffWrite)
	},
}

var gendiffCmd = &cobra.Command{
	Use:   "gendiff <path>",
	Short: "Write upstream changes to a file into the side-channel directory",
	Long: `Writes the changes to path since its anchor revision to <path>.diff next
to its translated copy, replacing an earlier diff.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(cmd, args[0], true)
	},
}

func runDiff(cmd *cobra.Command, path string, write bool) error {
	client, err := openClient(cmd)
	if err != nil {
		return err
	}

	var res *gittrans.DiffResult
	if write {
		res, err = client.GenDiff(cmd.Context(), path)
	} else {
		res, err = client.Diff(cmd.Context(), path)
	}
	if err != nil {
		return err
	}

	ws := client.Workspace()
	if res.UpToDate {
		info("%s has no upstream changes since %s.", ws.Relative(res.Path), short(res.TrackRev))
		return nil
	}
	if write {
		info("Wrote %s (%s..%s)", res.Artifact, short(res.TrackRev), short(res.Latest))
		return nil
	}

	fmt.Fprint(stdout, res.Text)
	if !strings.HasSuffix(res.Text, "\n") {
		fmt.Fprintln(stdout)
	}
	return nil
}

func init() {
	diffCmd.Flags().BoolVar(&diffWrite, "write", false, "save the diff as a .diff file instead of printing it")
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(gendiffCmd)
}
