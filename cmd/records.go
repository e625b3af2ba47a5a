package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/harrisonrobin/archsync/pkg/dashboard"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/organizer"
	"github.com/harrisonrobin/archsync/pkg/store"
	"github.com/spf13/cobra"
)

// formFlag binds a command-line flag to a form field.
type formFlag struct {
	flag  string
	key   string
	usage string
}

// recordKind describes one collection for the generic add/edit/delete
// commands.
type recordKind struct {
	name       string
	collection store.Collection
	fields     []model.Field
	flags      []formFlag
	current    func(ctx context.Context, o *organizer.Organizer, id string) (model.Form, bool, error)
}

var (
	taskKind = recordKind{
		name:       "task",
		collection: store.Tasks,
		fields:     model.TaskFields,
		flags: []formFlag{
			{"name", "taskName", "task name"},
			{"assignee", "assigneeName", "person responsible"},
			{"status", "status", "대기, 진행중 or 완료 (pending, in-progress, done)"},
			{"due", "dueDate", "due date (YYYY-MM-DD)"},
		},
		current: func(ctx context.Context, o *organizer.Organizer, id string) (model.Form, bool, error) {
			t, ok, err := o.Task(ctx, id)
			return t.Form(), ok, err
		},
	}
	resourceKind = recordKind{
		name:       "resource",
		collection: store.Resources,
		fields:     model.ResourceFields,
		flags: []formFlag{
			{"name", "resourceName", "resource name"},
			{"url", "url", "link"},
			{"category", "category", "category"},
			{"registrant", "registrant", "who added it"},
			{"version", "version", "version"},
		},
		current: func(ctx context.Context, o *organizer.Organizer, id string) (model.Form, bool, error) {
			r, ok, err := o.Resource(ctx, id)
			return r.Form(), ok, err
		},
	}
	feedKind = recordKind{
		name:       "feed",
		collection: store.Feeds,
		fields:     model.FeedFields,
		flags: []formFlag{
			{"title", "title", "note title"},
			{"content", "content", "note body"},
			{"type", "type", "피드백, 회의록 or 아이디어"},
			{"author", "authorName", "author"},
		},
		current: func(ctx context.Context, o *organizer.Organizer, id string) (model.Form, bool, error) {
			f, ok, err := o.Feed(ctx, id)
			return f.Form(), ok, err
		},
	}
	eventKind = recordKind{
		name:       "event",
		collection: store.Events,
		fields:     model.EventFields,
		flags: []formFlag{
			{"name", "eventName", "event name"},
			{"date", "date", "date (YYYY-MM-DD)"},
		},
		current: func(ctx context.Context, o *organizer.Organizer, id string) (model.Form, bool, error) {
			e, ok, err := o.Event(ctx, id)
			return e.Form(), ok, err
		},
	}
)

// bindFormFlags registers k's flags on cmd and returns a function that
// copies the ones the user set onto a form.
func bindFormFlags(cmd *cobra.Command, k recordKind) func(model.Form) {
	values := make(map[string]*string, len(k.flags))
	for _, f := range k.flags {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	return func(form model.Form) {
		for _, f := range k.flags {
			if cmd.Flags().Changed(f.flag) {
				form[f.key] = *values[f.flag]
			}
		}
	}
}

func newAddCmd(k recordKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", k.name),
		Args:  cobra.NoArgs,
	}
	apply := bindFormFlags(cmd, k)
	for _, f := range k.flags {
		for _, fd := range k.fields {
			if fd.Key == f.key && fd.Required {
				cmd.MarkFlagRequired(f.flag)
			}
		}
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		form := model.Form{}
		apply(form)
		if err := validateEdit(k, form); err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.dispatch.Dispatch(ctx, organizer.Request{
			Collection: k.collection,
			Action:     organizer.ActionAdd,
			Form:       form,
		}); err != nil {
			return fmt.Errorf("adding %s: %w", k.name, err)
		}
		fmt.Printf("Added %s.\n", k.name)
		return nil
	}
	return cmd
}

func newEditCmd(k recordKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: fmt.Sprintf("Edit a %s; only the flags given are changed", k.name),
		Args:  cobra.ExactArgs(1),
	}
	apply := bindFormFlags(cmd, k)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		form, ok, err := k.current(ctx, a.org, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("No %s with id %s.\n", k.name, id)
			return nil
		}
		apply(form)
		if err := validateEdit(k, form); err != nil {
			return err
		}

		changed, err := a.dispatch.Dispatch(ctx, organizer.Request{
			Collection: k.collection,
			Action:     organizer.ActionEdit,
			ID:         id,
			Form:       form,
		})
		if err != nil {
			return fmt.Errorf("editing %s: %w", k.name, err)
		}
		if changed {
			fmt.Printf("Updated %s %s.\n", k.name, id)
		}
		return nil
	}
	return cmd
}

// validateEdit checks the merged form. A task whose stored status is not a
// board column can only be saved once --status names one.
func validateEdit(k recordKind, form model.Form) error {
	status := form.Get("status")
	if k.collection != store.Tasks || status == "" {
		return model.Validate(k.fields, form)
	}
	if _, ok := model.ParseStatus(status); ok {
		return model.Validate(k.fields, form)
	}
	rest := model.Form{}
	for key, v := range form {
		if key != "status" {
			rest[key] = v
		}
	}
	if err := model.Validate(k.fields, rest); err != nil {
		return err
	}
	return fmt.Errorf("status %q is not recognized; pass --status with one of: %s", status, statusList())
}

func newDeleteCmd(k recordKind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s", k.name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, confirmer(os.Stdin, os.Stdout))
			if err != nil {
				return err
			}
			defer a.Close()

			changed, err := a.dispatch.Dispatch(ctx, organizer.Request{
				Collection: k.collection,
				Action:     organizer.ActionDelete,
				ID:         args[0],
			})
			if err != nil {
				return fmt.Errorf("deleting %s: %w", k.name, err)
			}
			if changed {
				fmt.Printf("Deleted %s %s.\n", k.name, args[0])
			} else {
				fmt.Println("Nothing deleted.")
			}
			return nil
		},
	}
}

func newRecordCmd(k recordKind, short string, list *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   k.name,
		Short: short,
	}
	cmd.AddCommand(newAddCmd(k), newEditCmd(k), newDeleteCmd(k), list)
	return cmd
}

var (
	flagTaskStatus     string
	flagResourceCat    string
	flagFeedType       string
	flagFeedFull       bool
	flagEventsUpcoming bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var status model.Status
		if flagTaskStatus != "" {
			s, ok := model.ParseStatus(flagTaskStatus)
			if !ok {
				return fmt.Errorf("unknown status %q", flagTaskStatus)
			}
			status = s
		}

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
		if status != "" {
			kept := tasks[:0]
			for _, t := range tasks {
				if t.Status == status {
					kept = append(kept, t)
				}
			}
			tasks = kept
		}
		fmt.Print(a.render.Tasks(tasks, a.msgs.NoTasks))
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move ID STATUS",
	Short: "Move a task to another board column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, ok := model.ParseStatus(args[1])
		if !ok {
			return fmt.Errorf("unknown status %q (valid: %s)", args[1], statusList())
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		changed, err := a.dispatch.Dispatch(ctx, organizer.Request{
			Collection: store.Tasks,
			Action:     organizer.ActionMove,
			ID:         args[0],
			Status:     status,
		})
		if err != nil {
			return fmt.Errorf("moving task: %w", err)
		}
		if changed {
			fmt.Printf("Moved %s to %s.\n", args[0], status)
		} else {
			fmt.Printf("No task with id %s.\n", args[0])
		}
		return nil
	},
}

var resourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		resources, err := a.org.Resources(ctx)
		if err != nil {
			return err
		}
		if cats := dashboard.Categories(resources); len(cats) > 0 && flagResourceCat == "" {
			fmt.Printf("(%s)\n", strings.Join(cats, ", "))
		}
		fmt.Print(a.render.Resources(dashboard.FilterResources(resources, flagResourceCat)))
		return nil
	},
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		feeds, err := a.org.Feeds(ctx)
		if err != nil {
			return err
		}
		fmt.Print(a.render.Feeds(dashboard.FilterFeeds(feeds, flagFeedType), flagFeedFull))
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events by date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.org.Events(ctx)
		if err != nil {
			return err
		}
		items := a.lists.EventsList(events)
		if flagEventsUpcoming {
			items = a.lists.UpcomingEvents(events)
		}
		fmt.Print(a.render.Events(items))
		return nil
	},
}

var (
	taskCmd     = newRecordCmd(taskKind, "Manage kanban tasks", taskListCmd)
	resourceCmd = newRecordCmd(resourceKind, "Manage saved resource links", resourceListCmd)
	feedCmd     = newRecordCmd(feedKind, "Manage notes, meeting minutes and feedback", feedListCmd)
	eventCmd    = newRecordCmd(eventKind, "Manage calendar events", eventListCmd)
)

func init() {
	taskCmd.AddCommand(taskMoveCmd)
	taskListCmd.Flags().StringVar(&flagTaskStatus, "status", "", "only show tasks with this status")
	resourceListCmd.Flags().StringVar(&flagResourceCat, "category", "", "only show this category")
	feedListCmd.Flags().StringVar(&flagFeedType, "type", "", "only show this note type")
	feedListCmd.Flags().BoolVar(&flagFeedFull, "full", false, "print whole notes instead of a preview")
	eventListCmd.Flags().BoolVar(&flagEventsUpcoming, "upcoming", false, "only the next few events from today")
}

func statusList() string {
	names := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
