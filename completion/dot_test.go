package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/completion"
)

const pointSource = `
/// A point.
struct Point {
    /// Horizontal position.
    x: i32,
    y: i32,
}

impl Point {
    fn new() -> Point {
        Point { x: 0, y: 0 }
    }

    /// Distance from the origin.
    fn dist(&self) -> f64 {
        0.0
    }
}

trait Draw {
    fn draw(&self);

    fn outline(&self) {
        self.draw()
    }
}

impl Draw for Point {
    fn draw(&self) {}
}
`

func TestDot_FieldsAndMethods(t *testing.T) {
	t.Parallel()

	items := completeAt(t, pointSource+`
fn main() {
    let p = Point::new();
    p.<|>
}
`)

	x, ok := findItem(items, "x")
	require.True(t, ok)
	assert.Equal(t, completion.KindField, x.Kind)
	assert.Equal(t, "i32", x.Detail)
	assert.Equal(t, "Horizontal position.", x.Doc)

	assertHasLabels(t, items, "y", "dist", "draw", "outline")

	// Associated functions without self are not reachable with dot.
	assertLacksLabels(t, items, "new")
}

func TestDot_InherentOutranksTrait(t *testing.T) {
	t.Parallel()

	items := completeAt(t, pointSource+`
fn main() {
    let p = Point::new();
    p.<|>
}
`)

	dist, ok := findItem(items, "dist")
	require.True(t, ok)
	assert.True(t, dist.Relevance.Inherent)

	draw, ok := findItem(items, "draw")
	require.True(t, ok)
	assert.False(t, draw.Relevance.Inherent)
}

func TestDot_MethodInsertsCallParens(t *testing.T) {
	t.Parallel()

	items := completeAt(t, pointSource+`
fn main() {
    let p = Point::new();
    p.<|>
}
`)

	dist, ok := findItem(items, "dist")
	require.True(t, ok)
	assert.Equal(t, completion.KindMethod, dist.Kind)
	assert.Equal(t, completion.SnippetText, dist.InsertFormat)
	assert.Equal(t, "dist()$0", dist.InsertText)
}

func TestDot_NoCallParensWhenDisabled(t *testing.T) {
	t.Parallel()

	cfg := completion.DefaultConfig()
	cfg.AddCallParens = false

	items := completeWith(t, pointSource+`
fn main() {
    let p = Point::new();
    p.<|>
}
`, cfg)

	dist, ok := findItem(items, "dist")
	require.True(t, ok)
	assert.Equal(t, "dist", dist.Text())
	assert.Equal(t, completion.PlainText, dist.InsertFormat)
}

func TestDot_DerefReceiver(t *testing.T) {
	t.Parallel()

	items := completeAt(t, pointSource+`
fn show(p: &Point) {
    p.<|>
}
`)

	assertHasLabels(t, items, "x", "dist")
}

func TestDot_UntypedReceiverKeepsPostfixOnly(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
fn main() {
    mystery.<|>
}
`)

	assertLacksLabels(t, items, "x", "dist")
	assertHasLabels(t, items, "dbg", "not", "match")
}
