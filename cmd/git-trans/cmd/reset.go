package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/git-trans/pkg/gittrans"
)

var (
	resetDryRun bool
	resetYes    bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Undo a cover by restoring files from HEAD",
	Long: `Restores every file 'cover' writes to its content at HEAD. Files that do
not exist at HEAD are removed. The translations in the side-channel
directory are not touched.

Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		plan, err := client.Reset(ctx, gittrans.CoverOptions{DryRun: true})
		if err != nil {
			if plan == nil {
				return err
			}
			return reportFailures(err, "read")
		}
		total := len(plan.Restored) + len(plan.Removed)
		if total == 0 {
			info("Nothing to reset.")
			return nil
		}
		if resetDryRun {
			info("Dry run: no files written.")
			for _, f := range append(plan.Restored, plan.Removed...) {
				info("  %s  %s", f.Action, f.Path)
			}
			return nil
		}

		if !resetYes {
			ok, err := confirm(fmt.Sprintf("Restore %s from HEAD?", plural(total, "file")))
			if err != nil {
				return err
			}
			if !ok {
				info("Cancelled.")
				return nil
			}
		}

		result, err := client.Reset(ctx, gittrans.CoverOptions{})
		if result != nil {
			for _, f := range append(result.Restored, result.Removed...) {
				detail("%s  %s", f.Action, f.Path)
			}
			info("Reset complete: %d restored, %d removed.", len(result.Restored), len(result.Removed))
		}
		if err != nil {
			if result == nil {
				return err
			}
			return reportFailures(err, "reset")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetDryRun, "dry-run", false, "list the files without touching them")
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}
