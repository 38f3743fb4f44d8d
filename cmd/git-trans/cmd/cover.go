package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/git-trans/pkg/gittrans"
)

var (
	coverDryRun bool
	coverYes    bool
)

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Copy the translations over the working tree",
	Long: `Copies every file in the side-channel directory to the same path under the
repository root, overwriting what is there. The ledger itself and files
matching cover.exclude in the configuration are skipped. Use 'reset' to
restore the working tree afterwards.

Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		plan, err := client.Cover(ctx, gittrans.CoverOptions{DryRun: true})
		if err != nil {
			return err
		}
		if plan.Count() == 0 {
			info("Nothing to cover.")
			return nil
		}
		if coverDryRun {
			info("Dry run: no files written.")
			for _, f := range plan.Copied {
				info("  %s  %s", f.Action, f.Path)
			}
			return nil
		}

		if !coverYes {
			ok, err := confirm(fmt.Sprintf("Overwrite %s in the working tree?", plural(plan.Count(), "file")))
			if err != nil {
				return err
			}
			if !ok {
				info("Cancelled.")
				return nil
			}
		}

		result, err := client.Cover(ctx, gittrans.CoverOptions{})
		if result != nil {
			for _, f := range result.Copied {
				detail("%s  %s", f.Action, f.Path)
			}
			info("Covered %s.", plural(result.Count(), "file"))
		}
		if err != nil {
			if result == nil {
				return err
			}
			return reportFailures(err, "copied")
		}
		return nil
	},
}

func init() {
	coverCmd.Flags().BoolVar(&coverDryRun, "dry-run", false, "list the files without copying them")
	coverCmd.Flags().BoolVarP(&coverYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(coverCmd)
}
