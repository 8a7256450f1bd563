package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/objman/internal/objects"
	"github.com/vovakirdan/objman/internal/schema"
)

var loadCmd = &cobra.Command{
	Use:   "load <manifest>",
	Short: "Apply a manifest and show the result",
	Long: `Apply a YAML manifest of interfaces, classes and objects to a fresh
context and print the resulting classes, interfaces and objects with their
property values.

Examples:
  objman load world.yaml
  objman load world.yaml --plain > world.txt`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := runLoad(os.Stdout, mustApp(), args[0]); err != nil {
			exitf("Error: %v\n", err)
		}
	},
}

func runLoad(w io.Writer, a *app, path string) error {
	ctx, err := applyManifest(a, path)
	if err != nil {
		return err
	}
	defer ctx.Dispose()

	cat := ctx.Catalog()
	fmt.Fprint(w, a.view.Classes(cat))
	fmt.Fprintln(w)
	fmt.Fprint(w, a.view.Interfaces(cat))
	fmt.Fprintln(w)
	fmt.Fprint(w, a.view.Objects(ctx))
	return nil
}

// applyManifest loads path into a new Context. The Context is disposed
// again if the manifest fails to apply.
func applyManifest(a *app, path string) (*objects.Context, error) {
	m, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	ctx := a.newContext()
	if err := schema.Apply(ctx, m); err != nil {
		ctx.Dispose()
		return nil, err
	}
	a.logger.Info("manifest applied", "path", path,
		"classes", len(m.Classes), "objects", len(m.Objects), "interfaces", len(m.Interfaces))
	return ctx, nil
}
