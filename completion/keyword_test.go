package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/completion"
)

func assertHasLabels(t *testing.T, items []completion.Item, want ...string) {
	t.Helper()

	got := labels(items)
	for _, label := range want {
		assert.Contains(t, got, label)
	}
}

func assertLacksLabels(t *testing.T, items []completion.Item, unwanted ...string) {
	t.Helper()

	got := labels(items)
	for _, label := range unwanted {
		assert.NotContains(t, got, label)
	}
}

func TestKeywords_ExprPosition(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn main() {\n    <|>\n}")

	assertHasLabels(t, items, "if", "match", "while", "loop", "for", "return", "true", "false", "unsafe", "let")
	assertLacksLabels(t, items, "break", "continue", "else")
}

func TestKeywords_LetOnlyAtStatementStart(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn main() {\n    foo(<|>)\n}")

	assertHasLabels(t, items, "if", "match")
	assertLacksLabels(t, items, "let")
}

func TestKeywords_ElseAfterIf(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
fn main() {
    if x {
        1
    }
    <|>
}
`)

	assertHasLabels(t, items, "else", "else if")
}

func TestKeywords_BreakContinueInLoop(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn main() {\n    while going {\n        <|>\n    }\n}")
	assertHasLabels(t, items, "break", "continue")
}

func TestKeywords_SelfInMethod(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct S;

impl S {
    fn m(&self) {
        <|>
    }
}
`)

	assertHasLabels(t, items, "self")

	items = completeAt(t, "fn free() {\n    <|>\n}")
	assertLacksLabels(t, items, "self")
}

func TestKeywords_ItemPosition(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn existing() {}\n\n<|>")

	assertHasLabels(t, items, "fn", "struct", "enum", "trait", "impl", "use", "mod", "const", "static", "pub", "unsafe")
	assertLacksLabels(t, items, "return", "else")
}

func TestKeywords_TraitImplPosition(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "struct S;\n\nimpl S {\n    <|>\n}")

	assertHasLabels(t, items, "fn", "const", "pub", "unsafe")
	assertLacksLabels(t, items, "struct", "enum", "trait")
}

func TestKeywords_TypePosition(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn f(x: <|>) {}")

	assertHasLabels(t, items, "dyn", "impl")
	assertLacksLabels(t, items, "return", "let")
}

func TestKeywords_UseTree(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "use <|>")
	assertHasLabels(t, items, "crate", "super", "self")

	// After a qualifier only self remains.
	items = completeAt(t, "use std::<|>")
	assertHasLabels(t, items, "self")
	assertLacksLabels(t, items, "crate", "super")
}

func TestKeywords_ReturnFollowsResultType(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn answer() -> i32 {\n    <|>\n}")

	ret, ok := findItem(items, "return")
	require.True(t, ok)
	assert.Equal(t, "return ", ret.InsertText)

	items = completeAt(t, "fn log() {\n    <|>\n}")

	ret, ok = findItem(items, "return")
	require.True(t, ok)
	assert.Equal(t, "return;", ret.InsertText)
}

func TestKeywords_SnippetGating(t *testing.T) {
	t.Parallel()

	cfg := completion.DefaultConfig()
	cfg.EnableSnippets = false

	items := completeWith(t, "fn main() {\n    <|>\n}", cfg)

	item, ok := findItem(items, "if")
	require.True(t, ok)
	assert.Equal(t, completion.PlainText, item.InsertFormat)
	assert.Equal(t, "if", item.Text())
}

func TestSnippets_ExprAndItem(t *testing.T) {
	t.Parallel()

	items := completeAt(t, "fn main() {\n    <|>\n}")
	assertHasLabels(t, items, "pd", "ppd")

	items = completeAt(t, "fn existing() {}\n\n<|>")
	assertHasLabels(t, items, "tfn", "tmod")

	// Disabled snippets remove them entirely.
	cfg := completion.DefaultConfig()
	cfg.EnableSnippets = false

	items = completeWith(t, "fn main() {\n    <|>\n}", cfg)
	assertLacksLabels(t, items, "pd", "ppd")
}
