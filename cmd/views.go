package cmd

import (
	"fmt"

	"github.com/harrisonrobin/archsync/pkg/board"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/spf13/cobra"
)

var (
	flagMonth       string
	flagProfileName string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month grid of events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := parseMonth(flagMonth, a.dates.Today())
		if err != nil {
			return fmt.Errorf("invalid --month value: %w", err)
		}
		events, err := a.org.Events(ctx)
		if err != nil {
			return err
		}
		fmt.Print(a.render.Calendar(view.Build(a.builder, events)))
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the task board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		b, err := a.org.Board().Load(ctx)
		if err != nil {
			return err
		}
		fmt.Print(board.Render(b, a.dates, a.msgs.NoTasks))
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print upcoming events, today's tasks and recent notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		tasks, err := a.org.Tasks(ctx)
		if err != nil {
			return err
		}
		events, err := a.org.Events(ctx)
		if err != nil {
			return err
		}
		feeds, err := a.org.Feeds(ctx)
		if err != nil {
			return err
		}
		profile, err := a.org.Profile(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s · %s\n\n", profile.Name, a.dates.Format(dateutil.ISODate(a.dates.Today())))
		fmt.Print(a.render.Dashboard(tasks, events, feeds))
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set the profile name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("name") {
			p, err := a.org.SetProfileName(ctx, flagProfileName)
			if err != nil {
				return fmt.Errorf("saving profile: %w", err)
			}
			fmt.Printf("Profile name set to %s.\n", p.Name)
			return nil
		}
		p, err := a.org.Profile(ctx)
		if err != nil {
			return err
		}
		fmt.Println(p.Name)
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVar(&flagMonth, "month", "", "month to show (YYYY-MM, default current)")
	profileCmd.Flags().StringVar(&flagProfileName, "name", "", "new profile name; blank restores the default")
}
