package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/harrisonrobin/archsync/pkg/auth"
	"github.com/harrisonrobin/archsync/pkg/config"
	"github.com/harrisonrobin/archsync/pkg/google"
	"github.com/harrisonrobin/archsync/pkg/index"
	"github.com/harrisonrobin/archsync/pkg/overdue"
	"github.com/spf13/cobra"
)

var flagCalendar string

var gcalCmd = &cobra.Command{
	Use:   "gcal",
	Short: "Publish events to Google Calendar",
	Long: `Publish events one way to a Google calendar as all-day events.

Credentials are read from credentials.json in the config directory; run
"archsync gcal auth" once to authorize.`,
}

var gcalAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to Google Calendar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.Dir()
		if err := auth.ResetToken(dir); err != nil {
			return err
		}
		if _, err := auth.GetCalendarService(cmd.Context(), dir); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		fmt.Printf("Authentication successful! Token saved to %s\n", auth.TokenPath(dir))
		return nil
	},
}

var gcalSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create, update and remove calendar events to match local events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		pub, err := newPublisher(ctx, a)
		if err != nil {
			return err
		}
		if _, err := pub.Sweep(ctx); err != nil {
			log.Printf("Warning: sweep failed: %v", err)
		}

		events, err := a.org.Events(ctx)
		if err != nil {
			return err
		}
		res, err := pub.Publish(ctx, events)
		if err != nil {
			return fmt.Errorf("publishing events: %w", err)
		}
		fmt.Printf("created %d, updated %d, unchanged %d, deleted %d, failed %d\n",
			res.Created, res.Updated, res.Unchanged, res.Deleted, res.Failed)
		return nil
	},
}

var gcalSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Flag published events that came due and check off past ones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		pub, err := newPublisher(ctx, a)
		if err != nil {
			return err
		}
		n, err := pub.Sweep(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Re-titled %d event(s).\n", n)
		return nil
	},
}

// newPublisher wires the calendar client with the id index and the pending
// table, both kept next to the data store.
func newPublisher(ctx context.Context, a *app) (*google.Publisher, error) {
	name := a.cfg.Calendar
	if flagCalendar != "" {
		name = flagCalendar
	}
	client, err := google.NewClient(ctx, config.Dir(), name)
	if err != nil {
		return nil, fmt.Errorf("creating Google Calendar client: %w", err)
	}

	idx, err := index.NewEventIndex(filepath.Join(a.dataDir, index.FileName))
	if err != nil {
		log.Printf("Warning: failed to initialize event index: %v", err)
	}
	pending, err := overdue.NewTable(filepath.Join(a.dataDir, overdue.FileName))
	if err != nil {
		log.Printf("Warning: failed to initialize pending table: %v", err)
	}

	return &google.Publisher{
		API:          client,
		Index:        idx,
		Pending:      pending,
		Dates:        a.dates,
		UrgentWindow: a.cfg.UrgentWindow,
	}, nil
}

func init() {
	gcalCmd.PersistentFlags().StringVar(&flagCalendar, "calendar", "", "Google Calendar name (overrides config)")

	gcalCmd.AddCommand(gcalAuthCmd)
	gcalCmd.AddCommand(gcalSyncCmd)
	gcalCmd.AddCommand(gcalSweepCmd)
}
