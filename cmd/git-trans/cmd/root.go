package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	gitBinary  string
	workDir    string
	verbose    bool
	quiet      bool
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "git-trans",
	Short: "Track the translation status of files in a git repository",
	Long: `git-trans keeps a ledger of translated files next to a git repository.
For every tracked file it records the upstream revision the translation was
made against, whether the file changed upstream since, its translation
progress and an advisory lock. Translations live in a side-channel directory
(.trans by default) that can be copied over the working tree and reset.

Run it as 'git trans <command>' or 'git-trans <command>'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "git-trans %s\n", version)
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		fmt.Fprintf(stdout, "  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "project config file (default <root>/.git-trans.yaml)")
	rootCmd.PersistentFlags().StringVar(&gitBinary, "git", "", "git executable (default git from PATH)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "directory", "C", "", "run as if started in this directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "diagnostic log format (text, json)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorf("%v", err)
		return err
	}
	return nil
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
