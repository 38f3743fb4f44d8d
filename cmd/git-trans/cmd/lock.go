package cmd

import (
	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock <path>...",
	Short: "Mark files as being translated",
	Long: `Locks each path in the ledger to tell other translators it is being worked
on. Locks are advisory: no command refuses to touch a locked file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetLock(cmd, args, true)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <path>...",
	Short: "Release file locks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetLock(cmd, args, false)
	},
}

func runSetLock(cmd *cobra.Command, args []string, locked bool) error {
	client, err := openClient(cmd)
	if err != nil {
		return err
	}

	files, err := client.SetLock(cmd.Context(), args, locked)
	if err != nil {
		return err
	}

	verb := "Unlocked"
	if locked {
		verb = "Locked"
	}
	for _, f := range files {
		info("%s %s", verb, client.Workspace().Relative(f.Path))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
}
