// Command stixgen generates random STIX content from prototyping-language
// input or directly from registered specifications.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stixlab/stixgen/graph"
	"github.com/stixlab/stixgen/lang"
	"github.com/stixlab/stixgen/materialize"
	"github.com/stixlab/stixgen/objgen"
	"github.com/stixlab/stixgen/registry"
	"github.com/stixlab/stixgen/semantics"
)

var (
	flagSeed        int64
	flagSpecFiles   []string
	flagProbability float64
	flagKeepRefs    bool
	flagBundle      bool
)

func main() {
	root := &cobra.Command{
		Use:           "stixgen",
		Short:         "Random STIX 2.1 content generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0,
		"random seed; 0 derives one from the current time")
	root.PersistentFlags().StringArrayVar(&flagSpecFiles, "spec", nil,
		"additional specification document (JSON or YAML), repeatable")
	root.PersistentFlags().Float64Var(&flagProbability, "optional-probability", 0.5,
		"inclusion chance for optional properties")
	root.PersistentFlags().BoolVar(&flagKeepRefs, "keep-refs", false,
		"generate optional *_ref/*_refs properties instead of suppressing them")

	buildCmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Expand a prototyping-language file into generated objects",
		Long: "Build parses prototyping-language input (from a file, or stdin when " +
			"omitted or \"-\"), expands it into an object graph and generates one " +
			"STIX object per node plus one relationship per edge.",
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
	buildCmd.Flags().BoolVar(&flagBundle, "bundle", false,
		"wrap the output in a STIX bundle")

	generateCmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Generate one object from a registered specification",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered specification names",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	root.AddCommand(buildCmd, generateCmd, listCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stixgen:", err)
		os.Exit(1)
	}
}

func newSession() (*registry.Registry, *objgen.Generator, *rand.Rand, error) {
	reg, err := registry.Builtin()
	if err != nil {
		return nil, nil, nil, err
	}
	for _, path := range flagSpecFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, nil, err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = reg.LoadYAML(data)
		default:
			err = reg.LoadJSON(data)
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	disp := semantics.NewDispatcher()
	semantics.RegisterSTIX(disp)
	semantics.RegisterFaker(disp, gofakeit.New(uint64(seed)))

	gen := objgen.New(reg, disp,
		objgen.WithRand(rnd),
		objgen.WithOptionalPropertyProbability(flagProbability),
		objgen.WithMinimizeRefProperties(!flagKeepRefs),
	)
	return reg, gen, rnd, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	src, err := readInput(args)
	if err != nil {
		return err
	}
	stmts, err := lang.Parse(string(src))
	if err != nil {
		return err
	}
	og, err := graph.Build(stmts)
	if err != nil {
		return err
	}
	_, gen, rnd, err := newSession()
	if err != nil {
		return err
	}
	result, err := materialize.Materialize(og, gen)
	if err != nil {
		return err
	}

	var out any = result.Objects
	if flagBundle {
		id, err := uuid.NewRandomFromReader(rnd)
		if err != nil {
			return err
		}
		out = map[string]any{
			"type":    "bundle",
			"id":      "bundle--" + id.String(),
			"objects": result.Objects,
		}
	}
	return emit(cmd.OutOrStdout(), out)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, gen, _, err := newSession()
	if err != nil {
		return err
	}
	obj, err := gen.Generate(args[0])
	if err != nil {
		return err
	}
	return emit(cmd.OutOrStdout(), obj)
}

func runList(cmd *cobra.Command, _ []string) error {
	reg, _, _, err := newSession()
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func emit(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
