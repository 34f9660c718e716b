package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/nitsky/rust-analyzer/analysis"
)

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "Print the symbols declared in a file",
		ArgsUsage: "FILE...",
		Action:    runSymbols,
	}
}

func runSymbols(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return ErrNoPosition
	}

	analyzer := analysis.NewAnalyzer(nil)

	for _, file := range args {
		content, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		f := analyzer.Analyze(file, content)

		if len(args) > 1 {
			fmt.Printf("%s:\n", file)
		}

		printSymbols(f)
	}

	return nil
}

// printSymbols lists every top-level symbol, sorted by name per kind.
func printSymbols(f *analysis.AnalyzedFile) {
	for _, name := range sortedKeys(f.Symbols.Functions) {
		fmt.Printf("  fn       %s\n", analysis.Signature(f.Symbols.Functions[name].Node))
	}

	for _, name := range sortedKeys(f.Symbols.Structs) {
		fmt.Printf("  struct   %s\n", name)
	}

	for _, name := range sortedKeys(f.Symbols.Enums) {
		fmt.Printf("  enum     %s\n", name)

		for _, variant := range f.Symbols.Enums[name].Node.Variants {
			if variant.Name != nil {
				fmt.Printf("           %s::%s\n", name, variant.Name.Name)
			}
		}
	}

	for _, name := range sortedKeys(f.Symbols.Traits) {
		fmt.Printf("  trait    %s\n", name)
	}

	for _, name := range sortedKeys(f.Symbols.Consts) {
		kw := "const"
		if f.Symbols.Consts[name].Static {
			kw = "static"
		}

		fmt.Printf("  %-8s %s\n", kw, name)
	}

	for _, name := range sortedKeys(f.Symbols.Mods) {
		fmt.Printf("  mod      %s\n", name)
	}

	for _, name := range sortedKeys(f.Symbols.Macros) {
		fmt.Printf("  macro    %s!\n", name)
	}

	for _, impl := range f.Impls {
		header := "impl " + impl.SelfName
		if impl.TraitName != "" {
			header = "impl " + impl.TraitName + " for " + impl.SelfName
		}

		fmt.Printf("  %s\n", header)

		for _, m := range impl.Methods {
			fmt.Printf("           %s\n", analysis.Signature(m.Node))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
