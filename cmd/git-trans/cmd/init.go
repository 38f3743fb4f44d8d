package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/git-trans/pkg/gittrans"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [lang] [tag]",
	Short: "Create the translation ledger for this repository",
	Long: `Creates the ledger document (.trans/records.toml by default) for the target
language lang, anchored at tag. Without a tag the ledger is anchored at the
current HEAD revision; an explicit tag is recorded as given.

lang falls back to default_lang from the configuration. Use --force to
replace an existing ledger.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd)
		if err != nil {
			return err
		}

		opts := gittrans.InitOptions{Force: initForce}
		if len(args) > 0 {
			opts.Lang = args[0]
		}
		if len(args) > 1 {
			opts.Tag = args[1]
		}

		l, err := client.Init(cmd.Context(), opts)
		if err != nil {
			return err
		}

		info("Initialized %s", client.Workspace().RecordsKey())
		detail("language: %s", l.Meta.Lang)
		detail("anchor:   %s", l.Meta.TrackRev)
		info("")
		info("Next steps:")
		info("  1. Run 'git trans add <path>' to track files")
		info("  2. Translate the copies under %s/", client.Workspace().TransKey())
		info("  3. Run 'git trans status' to see what changed upstream")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing ledger")
	rootCmd.AddCommand(initCmd)
}
