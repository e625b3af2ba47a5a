package cmd

import (
	"log"
	"path/filepath"

	"github.com/harrisonrobin/archsync/pkg/colors"
	"github.com/harrisonrobin/archsync/pkg/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	palette, err := colors.NewPalette(filepath.Join(a.dataDir, colors.FileName))
	if err != nil {
		log.Printf("Warning: failed to load palette, colors will not persist: %v", err)
		palette, _ = colors.NewPalette("")
	}

	return tui.Run(tui.RunOpts{
		Organizer:    a.org,
		Dates:        a.dates,
		Locale:       a.cfg.Locale,
		UrgentWindow: a.cfg.UrgentWindow,
		Limit:        a.cfg.UpcomingLimit,
		Palette:      palette,
	})
}
