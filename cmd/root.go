package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrisonrobin/archsync/pkg/store"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagYes    bool
	flagNoSeed bool
)

var rootCmd = &cobra.Command{
	Use:   "archsync",
	Short: "Personal organizer for tasks, resources, notes and events",
	Long: `archsync keeps a kanban task board, saved resource links, notes and a
calendar of events in one local store, with a terminal dashboard.

Running archsync without a subcommand opens the dashboard.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "answer yes to delete confirmations")
	rootCmd.PersistentFlags().BoolVar(&flagNoSeed, "no-seed", false, "do not create sample data on first run")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(gcalCmd)
	rootCmd.AddCommand(configCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("archsync %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var se *store.StorageError
		if errors.As(err, &se) {
			fmt.Fprintf(os.Stderr, "Changes were not saved: %s %s failed.\n", se.Op, se.Key)
		}
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
