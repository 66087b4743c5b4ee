package cmd

import "github.com/spf13/cobra"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ghnotify",
		Short:         "GitHub notification watcher for the terminal",
		Long:          "ghnotify polls your GitHub notification feed, enriches threads with subject details, and shows them in an interactive terminal list.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newTokenCmd(),
		newVersionCmd(),
	)

	// Bare invocation starts the watcher.
	rootCmd.RunE = runWatcher
	addRunFlags(rootCmd)

	return rootCmd
}
