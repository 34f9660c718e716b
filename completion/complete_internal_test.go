package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
)

func TestRunStrategy_AbsorbsPanic(t *testing.T) {
	t.Parallel()

	snap := analysis.NewSnapshot(nil)
	file := snap.SetFile("test.rs", []byte("fn main() {\n    \n}"))

	ctx, err := BuildContext(snap, file, 16, DefaultConfig())
	require.NoError(t, err)

	engine := NewEngine(snap, DefaultConfig(), zap.NewNop())

	var acc Completions

	engine.runStrategy(strategy{
		name: "boom",
		run: func(ctx *Context, acc *Completions) {
			acc.Add(ctx.NewBuilder("partial", KindKeyword).Build())
			panic("boom")
		},
	}, ctx, &acc)

	engine.runStrategy(strategy{
		name: "fine",
		run: func(ctx *Context, acc *Completions) {
			acc.Add(ctx.NewBuilder("after", KindKeyword).Build())
		},
	}, ctx, &acc)

	items := acc.Finish()

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}

	// A faulting strategy contributes nothing, not even items it added
	// before the panic, and later strategies still run.
	assert.NotContains(t, labels, "partial")
	assert.Equal(t, []string{"after"}, labels)
}

func TestBattery_Order(t *testing.T) {
	t.Parallel()

	var names []string
	for _, s := range battery {
		names = append(names, s.name)
	}

	want := []string{
		"attribute", "fn-param", "expr-keyword", "use-tree-keyword",
		"expr-snippet", "item-snippet", "qualified-path",
		"unqualified-path", "dot", "record", "pattern", "postfix",
		"macro-in-item-position", "trait-impl", "mod",
	}
	assert.Equal(t, want, names)
}
