package completion

import (
	"errors"

	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
)

// strategy is one completion source. Strategies run in a fixed order
// against the same context; each inspects the tag and either adds
// candidates or does nothing.
type strategy struct {
	name string
	run  func(*Context, *Completions)
}

// battery is the full strategy set in execution order. Items reach the
// client in this order, so changing it changes the result sequence.
var battery = []strategy{
	{name: "attribute", run: completeAttribute},
	{name: "fn-param", run: completeFnParam},
	{name: "expr-keyword", run: completeExprKeyword},
	{name: "use-tree-keyword", run: completeUseTreeKeyword},
	{name: "expr-snippet", run: completeExprSnippet},
	{name: "item-snippet", run: completeItemSnippet},
	{name: "qualified-path", run: completeQualifiedPath},
	{name: "unqualified-path", run: completeUnqualifiedPath},
	{name: "dot", run: completeDot},
	{name: "record", run: completeRecord},
	{name: "pattern", run: completePattern},
	{name: "postfix", run: completePostfix},
	{name: "macro-in-item-position", run: completeMacroInItemPosition},
	{name: "trait-impl", run: completeTraitImpl},
	{name: "mod", run: completeMod},
}

// Engine produces completions against a snapshot.
type Engine struct {
	snap *analysis.Snapshot
	cfg  Config
	log  *zap.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(snap *analysis.Snapshot, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{snap: snap, cfg: cfg, log: log}
}

// Complete returns the candidate set for the byte offset in the file.
// Positions with nothing to complete yield an empty slice and a nil
// error; a panicking strategy is dropped, never the whole request.
func (e *Engine) Complete(path string, offset int) ([]Item, error) {
	file, ok := e.snap.File(path)
	if !ok {
		e.log.Debug("no completions", zap.String("path", path), zap.Int("offset", offset))

		return []Item{}, nil
	}

	ctx, err := BuildContext(e.snap, file, offset, e.cfg)
	if err != nil {
		if errors.Is(err, ErrNoCompletion) || errors.Is(err, ErrNoContext) {
			e.log.Debug("no completions",
				zap.String("path", path),
				zap.Int("offset", offset),
				zap.Error(err))

			return []Item{}, nil
		}

		return nil, err
	}

	e.log.Debug("completion context",
		zap.String("path", path),
		zap.Int("offset", offset),
		zap.Stringer("tag", ctx.Tag),
		zap.String("typed", ctx.Typed))

	var acc Completions

	for _, s := range battery {
		e.runStrategy(s, ctx, &acc)
	}

	return acc.Finish(), nil
}

// runStrategy isolates one strategy: it runs against a private
// accumulator that is merged only on normal return, so a panic inside
// it is logged and the strategy contributes nothing, partial output
// included. The remaining strategies still run.
func (e *Engine) runStrategy(s strategy, ctx *Context, acc *Completions) {
	var local Completions

	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("completion strategy panicked",
				zap.String("strategy", s.name),
				zap.String("path", ctx.File.Path),
				zap.Int("offset", ctx.Offset),
				zap.Any("panic", r))

			return
		}

		acc.AddAll(local.items)
	}()

	s.run(ctx, &local)
}
