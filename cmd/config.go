package cmd

import (
	"fmt"
	"os"

	"github.com/harrisonrobin/archsync/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path := flagConfig
		if path == "" {
			path = config.GetConfigPath()
		}
		fmt.Printf("# %s\n", path)
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

var configSetCalendarCmd = &cobra.Command{
	Use:   "set-calendar NAME",
	Short: "Set the Google Calendar events are published to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.Calendar = args[0]
		if err := config.Save(cfg, flagConfig); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Default calendar set to: %s\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCalendarCmd)
}
