package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/objman/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show recorded catalog snapshots",
	Long: `Without an argument, list the most recent snapshots. With a snapshot
ID, show the classes recorded in that snapshot.

Examples:
  objman history
  objman history --limit 5
  objman history 3
  objman history --clear`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		var id int64
		if len(args) == 1 {
			parsed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || parsed <= 0 {
				exitf("Error: invalid snapshot id %q\n", args[0])
			}
			id = parsed
		}
		if err := runHistory(os.Stdout, mustApp(), id, flagLimit, flagClear); err != nil {
			exitf("Error: %v\n", err)
		}
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of snapshots to list")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded snapshot")
}

// runHistory lists snapshots when id is 0 and shows one snapshot otherwise.
func runHistory(w io.Writer, a *app, id int64, limit int, wipe bool) error {
	store, err := storage.Open(a.cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if wipe {
		if err := store.ClearSnapshots(); err != nil {
			return err
		}
		fmt.Fprintln(w, "History cleared.")
		return nil
	}

	if id == 0 {
		snaps, err := store.Snapshots(limit)
		if err != nil {
			return err
		}
		fmt.Fprint(w, a.view.Snapshots(snaps))
		if len(snaps) == 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Run 'objman catalog <manifest>' to record the first snapshot.")
		}
		return nil
	}

	snap, err := store.Snapshot(id)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("snapshot #%d not found", id)
	}
	classes, err := store.SnapshotClasses(id)
	if err != nil {
		return err
	}
	fmt.Fprint(w, a.view.SnapshotClasses(*snap, classes))
	return nil
}
