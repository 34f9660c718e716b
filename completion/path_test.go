package completion_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/completion"
)

// completeFiles runs completion over a multi-file snapshot. Exactly one
// file carries the caret marker.
func completeFiles(t *testing.T, files map[string]string) []completion.Item {
	t.Helper()

	snap := analysis.NewSnapshot(nil)

	target := ""
	offset := -1

	for path, src := range files {
		if i := strings.Index(src, caret); i >= 0 {
			require.Equal(t, "", target, "more than one file has a caret")
			target = path
			offset = i
			src = strings.Replace(src, caret, "", 1)
		}

		snap.SetFile(path, []byte(src))
	}

	require.NotEqual(t, "", target, "no file has a caret")

	engine := completion.NewEngine(snap, completion.DefaultConfig(), nil)

	items, err := engine.Complete(target, offset)
	require.NoError(t, err)

	return items
}

func TestPath_UnqualifiedScope(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct Config;

fn load() -> Config {
    Config
}

fn main() {
    let count = 1;
    co<|>
}
`)

	assertHasLabels(t, items, "count", "Config", "load")

	// Prelude names are always in scope.
	assertHasLabels(t, items, "Some", "None", "String")

	load, ok := findItem(items, "load")
	require.True(t, ok)
	assert.Equal(t, completion.KindFunction, load.Kind)
	assert.Equal(t, "fn load() -> Config", load.Detail)
	assert.Equal(t, "load()$0", load.InsertText)

	count, ok := findItem(items, "count")
	require.True(t, ok)
	assert.True(t, count.Relevance.Local)
}

func TestPath_TypePositionFiltersScope(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct Config;

fn load() {}

fn store(c: <|>) {}
`)

	assertHasLabels(t, items, "Config")
	assertLacksLabels(t, items, "load")

	// Primitives are offered in type position only.
	i32item, ok := findItem(items, "i32")
	require.True(t, ok)
	assert.Equal(t, "primitive", i32item.Detail)

	exprItems := completeAt(t, "fn main() {\n    <|>\n}")
	assertLacksLabels(t, exprItems, "usize")
}

func TestPath_QualifiedEnum(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
enum Shape {
    /// A perfect circle.
    Circle(f64),
    Empty,
}

impl Shape {
    fn area(&self) -> f64 {
        0.0
    }
}

fn main() {
    let s = Shape::<|>
}
`)

	circle, ok := findItem(items, "Circle")
	require.True(t, ok)
	assert.Equal(t, completion.KindVariant, circle.Kind)
	assert.Equal(t, "Shape::Circle(f64)", circle.Detail)
	assert.Equal(t, "A perfect circle.", circle.Doc)
	assert.Equal(t, "Circle($1)$0", circle.InsertText)

	empty, ok := findItem(items, "Empty")
	require.True(t, ok)
	assert.Equal(t, "Empty", empty.Text())

	// Methods stay reachable fully qualified.
	assertHasLabels(t, items, "area")
}

func TestPath_QualifiedStructAssociated(t *testing.T) {
	t.Parallel()

	items := completeAt(t, pointSource+`
fn main() {
    let p = Point::<|>
}
`)

	assertHasLabels(t, items, "new", "dist", "draw")
	assertLacksLabels(t, items, "x", "y")
}

func TestPath_QualifiedTrait(t *testing.T) {
	t.Parallel()

	items := completeAt(t, pointSource+`
fn main() {
    Draw::<|>
}
`)

	assertHasLabels(t, items, "draw", "outline")
}

func TestPath_CrateResolvesToFileItems(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct Config;

const LIMIT: i32 = 10;

fn main() {
    crate::<|>
}
`)

	assertHasLabels(t, items, "Config", "LIMIT", "main")
}

func TestPath_QualifiedInlineMod(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
mod util {
    fn helper() {}

    struct Buffer;
}

fn main() {
    util::<|>
}
`)

	assertHasLabels(t, items, "helper", "Buffer")
	assertLacksLabels(t, items, "main")
}

func TestPath_QualifiedSiblingFileMod(t *testing.T) {
	t.Parallel()

	items := completeFiles(t, map[string]string{
		"main.rs": `
mod store;

fn main() {
    store::<|>
}
`,
		"store.rs": `
pub struct Record;

pub fn open() {}
`,
	})

	assertHasLabels(t, items, "Record", "open")
}

func TestPath_AutoimportNeedsTypedPrefix(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"other.rs": "pub struct Widget;\n",
	}

	files["main.rs"] = "fn main() {\n    Wi<|>\n}\n"

	items := completeFiles(t, files)

	widget, ok := findItem(items, "Widget")
	require.True(t, ok)
	assert.Equal(t, "crate::other::Widget", widget.ImportPath)

	// With nothing typed the project is not flooded with importables.
	files["main.rs"] = "fn main() {\n    <|>\n}\n"

	items = completeFiles(t, files)
	assertLacksLabels(t, items, "Widget")
}

func TestPath_AutoimportDisabled(t *testing.T) {
	t.Parallel()

	cfg := completion.DefaultConfig()
	cfg.EnableAutoimport = false

	snap := analysis.NewSnapshot(nil)
	snap.SetFile("other.rs", []byte("pub struct Widget;\n"))

	src := "fn main() {\n    Wi\n}\n"
	snap.SetFile("main.rs", []byte(src))

	engine := completion.NewEngine(snap, cfg, nil)

	items, err := engine.Complete("main.rs", strings.Index(src, "Wi")+2)
	require.NoError(t, err)

	assertLacksLabels(t, items, "Widget")
}

func TestPath_MacroInScope(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn main() {\n    pri<|>\n}")

	println, ok := findItem(items, "println!")
	require.True(t, ok)
	assert.Equal(t, completion.KindMacro, println.Kind)
	assert.Equal(t, "println!($0)", println.InsertText)
}
