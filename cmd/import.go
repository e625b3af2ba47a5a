package cmd

import (
	"fmt"
	"os"

	"github.com/harrisonrobin/archsync/pkg/importer/orgmode"
	"github.com/harrisonrobin/archsync/pkg/importer/taskwarrior"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/spf13/cobra"
)

var (
	flagOrgTag string
	flagTWFile string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tasks from org-mode files or Taskwarrior",
}

var importOrgCmd = &cobra.Command{
	Use:   "org FILE...",
	Short: "Import TODO/DOING/DONE headings from org files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := orgmode.ParseFiles(args)
		if err != nil {
			return fmt.Errorf("reading org files: %w", err)
		}
		if flagOrgTag != "" {
			entries = orgmode.FilterEntries(entries, flagOrgTag)
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return importTasks(cmd, a, orgmode.ToTasks(entries, a.dates.Now()))
	},
}

var importTaskwarriorCmd = &cobra.Command{
	Use:   "taskwarrior [FILTER...]",
	Short: "Import tasks from `task export`",
	Long: `Import tasks from Taskwarrior. Without --file the task binary is run
with the given filter; with --file the export JSON is read from that file,
or from stdin when the file is "-".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := taskwarrior.NewClient()

		var twTasks []taskwarrior.Task
		var err error
		switch flagTWFile {
		case "":
			twTasks, err = client.Export(cmd.Context(), args)
		case "-":
			twTasks, err = client.ParseTasks(os.Stdin)
		default:
			twTasks, err = parseTaskwarriorFile(client, flagTWFile)
		}
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return importTasks(cmd, a, taskwarrior.ToTasks(twTasks, a.dates.Loc, a.dates.Now()))
	},
}

func parseTaskwarriorFile(client *taskwarrior.Client, path string) ([]taskwarrior.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return client.ParseTasks(f)
}

func importTasks(cmd *cobra.Command, a *app, tasks []model.Task) error {
	added, err := a.org.ImportTasks(cmd.Context(), tasks)
	if err != nil {
		return fmt.Errorf("importing tasks: %w", err)
	}
	fmt.Printf("Imported %d of %d task(s).\n", added, len(tasks))
	return nil
}

func init() {
	importOrgCmd.Flags().StringVar(&flagOrgTag, "tag", "", "only import headings carrying this tag")
	importTaskwarriorCmd.Flags().StringVar(&flagTWFile, "file", "", "read export JSON from a file (- for stdin)")

	importCmd.AddCommand(importOrgCmd)
	importCmd.AddCommand(importTaskwarriorCmd)
}
