package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	rustanalyzer "github.com/nitsky/rust-analyzer"
	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/completion"
	"github.com/nitsky/rust-analyzer/lsp"
)

var (
	ErrNoPosition  = errors.New("no position specified (use FILE LINE:COL or --offset)")
	ErrBadPosition = errors.New("position must be LINE:COL with 1-based line and column")
)

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "List completion candidates at a position",
		ArgsUsage: "FILE [LINE:COL]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "offset",
				Usage: "byte offset of the cursor (overrides LINE:COL)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output candidates as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "include detail and documentation",
			},
		},
		Action: runComplete,
	}
}

func runComplete(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return ErrNoPosition
	}

	file := args[0]

	content, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	offset := int(cmd.Int("offset"))
	if offset < 0 {
		if len(args) < 2 {
			return ErrNoPosition
		}

		offset, err = positionOffset(string(content), args[1])
		if err != nil {
			return err
		}
	}

	items, err := completeAt(file, content, offset)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(items)
	}

	printItems(items, cmd.Bool("verbose"))

	return nil
}

// completeAt runs the engine over the file and its sibling sources.
func completeAt(file string, content []byte, offset int) ([]completion.Item, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", file, err)
	}

	cfg, err := rustanalyzer.LoadConfigOrDefault(filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}

	loader := lsp.NewFileLoader(zap.NewNop())
	snap := analysis.NewSnapshot(loader)

	snap.SetFile(absPath, content)

	for _, sibling := range siblingSources(absPath) {
		data, err := loader.Load(sibling)
		if err != nil {
			continue
		}

		snap.SetFile(sibling, data)
	}

	engine := completion.NewEngine(snap, cfg.Completion, zap.NewNop())

	return engine.Complete(absPath, offset)
}

// siblingSources lists the other .rs files next to path.
func siblingSources(path string) []string {
	dir := filepath.Dir(path)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var siblings []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rs") {
			continue
		}

		full := filepath.Join(dir, entry.Name())
		if full != path {
			siblings = append(siblings, full)
		}
	}

	return siblings
}

// positionOffset converts a 1-based LINE:COL argument to a byte offset.
func positionOffset(content, pos string) (int, error) {
	lineStr, colStr, ok := strings.Cut(pos, ":")
	if !ok {
		return 0, ErrBadPosition
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return 0, ErrBadPosition
	}

	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return 0, ErrBadPosition
	}

	offset := 0

	for line > 1 {
		next := strings.IndexByte(content[offset:], '\n')
		if next < 0 {
			return 0, fmt.Errorf("%w: line past end of file", ErrBadPosition)
		}

		offset += next + 1
		line--
	}

	offset += col - 1
	if offset > len(content) {
		offset = len(content)
	}

	return offset, nil
}

func printItems(items []completion.Item, verbose bool) {
	for _, item := range items {
		if !verbose {
			fmt.Printf("%-12s %s\n", item.Kind, item.Label)

			continue
		}

		fmt.Printf("%-12s %s", item.Kind, item.Label)

		if item.Detail != "" {
			fmt.Printf("  (%s)", item.Detail)
		}

		if item.ImportPath != "" {
			fmt.Printf("  [use %s]", item.ImportPath)
		}

		fmt.Println()

		if item.Doc != "" {
			for _, line := range strings.Split(item.Doc, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
}
