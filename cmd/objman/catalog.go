package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/objman/internal/storage"
)

var flagLabel string

var catalogCmd = &cobra.Command{
	Use:   "catalog <manifest>",
	Short: "Apply a manifest and record a catalog snapshot",
	Long: `Apply a YAML manifest and record the resulting catalog (classes,
property layouts, instance counts, index height) in the history database.
Snapshots are diagnostics only; nothing is ever restored from them.

Examples:
  objman catalog world.yaml
  objman catalog world.yaml --label before-refactor
  objman catalog world.yaml --db ./history.db`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if _, err := runCatalog(os.Stdout, mustApp(), args[0], flagLabel); err != nil {
			exitf("Error: %v\n", err)
		}
	},
}

func init() {
	catalogCmd.Flags().StringVar(&flagLabel, "label", "", "Snapshot label (default: manifest file name)")
}

func runCatalog(w io.Writer, a *app, path, label string) (int64, error) {
	ctx, err := applyManifest(a, path)
	if err != nil {
		return 0, err
	}
	defer ctx.Dispose()

	if label == "" {
		label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	store, err := storage.Open(a.cfg.Storage.DBPath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	cat := ctx.Catalog()
	id, err := store.SaveSnapshot(label, cat)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("snapshot recorded", "id", id, "label", label, "db", a.cfg.Storage.DBPath)

	fmt.Fprint(w, a.view.Classes(cat))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Recorded snapshot #%d (%s)\n", id, label)
	return id, nil
}
