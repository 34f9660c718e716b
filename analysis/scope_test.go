package analysis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/analysis"
)

// scopeAt analyzes src and returns the scope at the marker, which is
// removed from the source first.
func scopeAt(t *testing.T, src string) []analysis.ScopeItem {
	t.Helper()

	offset := strings.Index(src, "<|>")
	require.GreaterOrEqual(t, offset, 0, "missing <|> marker")

	src = strings.Replace(src, "<|>", "", 1)

	snap := analysis.NewSnapshot(nil)
	f := snap.SetFile("test.rs", []byte(src))

	return snap.ScopeAt(f, offset)
}

func scopeNames(items []analysis.ScopeItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}

	return names
}

func findScope(items []analysis.ScopeItem, name string) (analysis.ScopeItem, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}

	return analysis.ScopeItem{}, false
}

func TestScopeAt_Locals(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
fn main() {
    let count: i32 = 0;
    let name = "x";
    <|>
    let later = 1;
}
`)

	names := scopeNames(items)
	assert.Contains(t, names, "count")
	assert.Contains(t, names, "name")
	assert.NotContains(t, names, "later", "bindings after the cursor are not in scope")

	count, ok := findScope(items, "count")
	require.True(t, ok)
	assert.Equal(t, analysis.SymbolKindLocal, count.Kind)
	require.True(t, count.TypeKnown)
	assert.Equal(t, "i32", count.Type.Name)
}

func TestScopeAt_Params(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
fn greet(who: String, times: u32) {
    <|>
}
`)

	who, ok := findScope(items, "who")
	require.True(t, ok)
	require.True(t, who.TypeKnown)
	assert.Equal(t, "String", who.Type.Name)

	_, ok = findScope(items, "times")
	assert.True(t, ok)
}

func TestScopeAt_SelfInMethod(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
struct Point { x: i32 }

impl Point {
    fn get(&self) -> i32 {
        <|>
    }
}
`)

	self, ok := findScope(items, "self")
	require.True(t, ok)
	require.True(t, self.TypeKnown)
	assert.Equal(t, "Point", self.Type.Name)
	assert.Equal(t, 1, self.Type.Ref)
}

func TestScopeAt_InnerShadowsOuter(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
fn main() {
    let x: i32 = 1;
    {
        let x: f64 = 2.0;
        <|>
    }
}
`)

	x, ok := findScope(items, "x")
	require.True(t, ok)
	require.True(t, x.TypeKnown)
	assert.Equal(t, "f64", x.Type.Name, "inner binding wins")
}

func TestScopeAt_MatchArmAndForBindings(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
fn main() {
    let opt = Some(1);
    match opt {
        Some(value) => {
            <|>
        }
        None => {}
    }
}
`)

	_, ok := findScope(items, "value")
	assert.True(t, ok, "match arm binding in scope")

	items = scopeAt(t, `
fn main() {
    for item in things {
        <|>
    }
}
`)

	_, ok = findScope(items, "item")
	assert.True(t, ok, "for binding in scope")
}

func TestScopeAt_FileItemsAndPrelude(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
struct Config;

fn load() -> Config { Config }

fn main() {
    <|>
}
`)

	names := scopeNames(items)
	assert.Contains(t, names, "Config")
	assert.Contains(t, names, "load")

	// Prelude names come for free.
	assert.Contains(t, names, "Option")
	assert.Contains(t, names, "String")
	assert.Contains(t, names, "Some")
	assert.Contains(t, names, "println")

	some, ok := findScope(items, "Some")
	require.True(t, ok)
	assert.Equal(t, analysis.SymbolKindVariant, some.Kind)
}

func TestScopeAt_CurrentFileShadowsPrelude(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
struct Option;

fn main() {
    <|>
}
`)

	var hits int

	for _, item := range items {
		if item.Name == "Option" {
			hits++

			assert.Equal(t, analysis.SymbolKindStruct, item.Kind)
		}
	}

	assert.Equal(t, 1, hits, "local declaration shadows the prelude, no duplicate")
}

func TestScopeAt_Uses(t *testing.T) {
	t.Parallel()

	items := scopeAt(t, `
use crate::db::Connection;

fn main() {
    <|>
}
`)

	conn, ok := findScope(items, "Connection")
	require.True(t, ok)
	assert.Equal(t, analysis.SymbolKindModule, conn.Kind)
}
