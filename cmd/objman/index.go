package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/objman/internal/avl"
)

// defaultKeys triggers every rotation case on the way in.
var defaultKeys = []uint64{5, 3, 6, 20, 4, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}

var (
	flagRandom int
	flagSeed   int64
	flagRemove []uint
	flagDOT    bool
)

var indexCmd = &cobra.Command{
	Use:   "index [keys...]",
	Short: "Build a balanced index and report its shape",
	Long: `Insert keys into an empty balanced index, optionally remove some,
verify the ordering and balance invariants after every step, and print the
size, height and in-order keys. Without keys a fixed sequence that
exercises every rotation case is used.

Examples:
  objman index
  objman index 10 20 30 40 50
  objman index --random 1000 --seed 7
  objman index --random            # count from index.random_keys
  objman index 1 2 3 4 5 --remove 2,4
  objman index --dot | dot -Tsvg > tree.svg`,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		keys, err := parseKeys(args)
		if err != nil {
			exitf("Error: %v\n", err)
		}
		if cmd.Flags().Changed("random") {
			n := flagRandom
			if n < 0 {
				n = a.cfg.Index.RandomKeys
			}
			seed := a.cfg.Index.Seed
			if cmd.Flags().Changed("seed") {
				seed = flagSeed
			}
			keys = randomKeys(n, seed)
		}
		remove := make([]uint64, len(flagRemove))
		for i, k := range flagRemove {
			remove[i] = uint64(k)
		}
		if err := runIndex(os.Stdout, a, keys, remove, flagDOT); err != nil {
			exitf("Error: %v\n", err)
		}
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagRandom, "random", 0, "Insert n pseudo-random keys instead of arguments")
	indexCmd.Flags().Lookup("random").NoOptDefVal = "-1"
	indexCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Seed for --random (default: index.seed)")
	indexCmd.Flags().UintSliceVar(&flagRemove, "remove", nil, "Keys to remove after inserting")
	indexCmd.Flags().BoolVar(&flagDOT, "dot", false, "Print the tree as Graphviz DOT")
}

func parseKeys(args []string) ([]uint64, error) {
	if len(args) == 0 {
		return defaultKeys, nil
	}
	keys := make([]uint64, len(args))
	for i, arg := range args {
		k, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", arg, err)
		}
		keys[i] = k
	}
	return keys, nil
}

func randomKeys(n int, seed int64) []uint64 {
	n = max(n, 0)
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = rng.Uint64N(uint64(n) * 4)
	}
	return keys
}

func runIndex(w io.Writer, a *app, keys, remove []uint64, dot bool) error {
	tree := avl.New[int]()
	defer tree.Dispose()

	added := 0
	for i, k := range keys {
		if tree.Insert(k, i) {
			added++
		}
		if err := tree.Check(); err != nil {
			return fmt.Errorf("after inserting %d: %w", k, err)
		}
	}
	removed := 0
	for _, k := range remove {
		if _, ok := tree.Remove(k); ok {
			removed++
		}
		if err := tree.Check(); err != nil {
			return fmt.Errorf("after removing %d: %w", k, err)
		}
	}
	a.logger.Debug("index built", "inserted", len(keys), "distinct", added, "removed", removed, "height", tree.Height())

	if dot {
		return tree.Dump(w)
	}

	ordered := tree.Keys()
	shown := make([]string, 0, min(len(ordered), 32))
	for i, k := range ordered {
		if i == 32 {
			shown = append(shown, fmt.Sprintf("... (%d more)", len(ordered)-i))
			break
		}
		shown = append(shown, strconv.FormatUint(k, 10))
	}

	fmt.Fprint(w, a.view.KeyValues("Balanced index", [][2]string{
		{"inserted", strconv.Itoa(len(keys))},
		{"replaced", strconv.Itoa(len(keys) - added)},
		{"removed", strconv.Itoa(removed)},
		{"size", strconv.Itoa(tree.Len())},
		{"height", strconv.Itoa(tree.Height())},
		{"invariants", "ok"},
		{"keys", strings.Join(shown, " ")},
	}))
	return nil
}
