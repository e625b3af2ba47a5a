package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/config"
	"github.com/harrisonrobin/archsync/pkg/dashboard"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/organizer"
	"github.com/harrisonrobin/archsync/pkg/store"
)

// app is everything a command needs once config and storage are open.
type app struct {
	cfg      *config.Config
	dataDir  string
	gw       *store.Gateway
	org      *organizer.Organizer
	dates    *dateutil.Dates
	lists    *dashboard.Lists
	msgs     dashboard.Messages
	render   *dashboard.Renderer
	builder  *calendar.Builder
	dispatch *organizer.Dispatcher
}

func openApp(ctx context.Context, confirm organizer.Confirmer) (*app, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Printf("Warning: %v", err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	opts := cfg.StoreOptions()
	gw, err := store.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	dates := dateutil.New(time.Now, dateutil.LocaleByName(cfg.Locale))
	org := organizer.New(gw, dates.Now)
	if !flagNoSeed {
		if _, err := org.Seed(ctx); err != nil {
			gw.Close()
			return nil, fmt.Errorf("seeding sample data: %w", err)
		}
	}

	lists := dashboard.NewLists(dates, cfg.UrgentWindow, cfg.UpcomingLimit)
	msgs := dashboard.MessagesFor(cfg.Locale)
	return &app{
		cfg:      cfg,
		dataDir:  opts.Dir,
		gw:       gw,
		org:      org,
		dates:    dates,
		lists:    lists,
		msgs:     msgs,
		render:   dashboard.NewRenderer(lists, msgs),
		builder:  calendar.NewBuilder(dates, cfg.UrgentWindow),
		dispatch: organizer.NewDispatcher(org, confirm),
	}, nil
}

func (a *app) Close() error {
	return a.gw.Close()
}

// confirmer approves everything under --yes, otherwise asks on in.
func confirmer(in io.Reader, out io.Writer) organizer.Confirmer {
	if flagYes {
		return organizer.AlwaysConfirm
	}
	return promptConfirmer(in, out)
}

func promptConfirmer(in io.Reader, out io.Writer) organizer.Confirmer {
	r := bufio.NewReader(in)
	return organizer.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "예", "네":
			return true
		}
		return false
	})
}

// parseMonth reads YYYY-MM. An empty value means the current month.
func parseMonth(s string, now time.Time) (calendar.ViewState, error) {
	if s == "" {
		return calendar.NewViewState(now), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return calendar.ViewState{}, fmt.Errorf("expected YYYY-MM, got %q", s)
	}
	return calendar.ViewState{Year: t.Year(), Month: t.Month()}, nil
}
