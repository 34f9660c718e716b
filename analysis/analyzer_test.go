package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/analysis"
)

func analyze(t *testing.T, src string) *analysis.AnalyzedFile {
	t.Helper()

	analyzer := analysis.NewAnalyzer(nil)

	return analyzer.Analyze("test.rs", []byte(src))
}

func TestAnalyzer_SymbolTables(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
use std::fmt;
use crate::other::Thing as Gadget;

const MAX: u32 = 10;
static NAME: &str = "x";

/// A point in the plane.
struct Point {
    x: i32,
    y: i32,
}

enum Dir { North, South }

trait Draw {
    fn draw(&self);
}

mod geometry;

fn main() {}
`)

	require.NoError(t, f.ParseError)

	assert.Contains(t, f.Symbols.Functions, "main")
	assert.Contains(t, f.Symbols.Structs, "Point")
	assert.Contains(t, f.Symbols.Enums, "Dir")
	assert.Contains(t, f.Symbols.Traits, "Draw")
	assert.Contains(t, f.Symbols.Consts, "MAX")
	assert.Contains(t, f.Symbols.Consts, "NAME")
	assert.Contains(t, f.Symbols.Mods, "geometry")

	assert.True(t, f.Symbols.Consts["NAME"].Static)
	assert.Equal(t, "A point in the plane.", f.Symbols.Structs["Point"].Doc)

	require.Len(t, f.Symbols.Uses, 2)
	assert.Equal(t, "fmt", f.Symbols.Uses[0].LocalName())
	assert.Equal(t, "Gadget", f.Symbols.Uses[1].LocalName())
}

func TestAnalyzer_Impls(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
struct Point;

trait Draw {
    fn draw(&self);
}

impl Point {
    fn new() -> Point { Point }
}

impl Draw for Point {
    fn draw(&self) {}
}
`)

	require.NoError(t, f.ParseError)
	require.Len(t, f.Impls, 2)

	inherent := f.Impls[0]
	assert.Equal(t, "Point", inherent.SelfName)
	assert.True(t, inherent.Inherent())
	require.Len(t, inherent.Methods, 1)
	assert.Equal(t, "new", inherent.Methods[0].Name)

	traitImpl := f.Impls[1]
	assert.Equal(t, "Point", traitImpl.SelfName)
	assert.Equal(t, "Draw", traitImpl.TraitName)
	assert.False(t, traitImpl.Inherent())
}

func TestAnalyzer_MacroExpansion(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
macro_rules! make_helper {
    () => {
        /// Generated helper.
        fn helper() -> i32 { 42 }
    };
}

make_helper!();

fn main() {}
`)

	require.NoError(t, f.ParseError)

	helper, ok := f.Symbols.Functions["helper"]
	require.True(t, ok, "macro-expanded fn missing from symbols")
	assert.True(t, helper.FromMacro)
	assert.Equal(t, "Generated helper.", helper.Doc)

	// Items written directly are not marked.
	assert.False(t, f.Symbols.Functions["main"].FromMacro)
}

func TestAnalyzer_MacroExpansionDocAttr(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
macro_rules! make_attr_helper {
    () => {
        #[doc = "Attribute documented."]
        fn attr_helper() {}
    };
}

make_attr_helper!();
`)

	require.NoError(t, f.ParseError)

	helper, ok := f.Symbols.Functions["attr_helper"]
	require.True(t, ok)
	assert.Equal(t, "Attribute documented.", helper.Doc)
}

func TestAnalyzer_BrokenFileStillHasSymbols(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
struct Good { x: i32 }

fn broken( {
`)

	// A parse error must not wipe the table.
	assert.Contains(t, f.Symbols.Structs, "Good")
}

func TestDocText(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
/// First line.
///
/// Second paragraph.
fn documented() {}
`)

	require.NoError(t, f.ParseError)
	assert.Equal(t, "First line.\n\nSecond paragraph.", f.Symbols.Functions["documented"].Doc)
}

func TestSignature(t *testing.T) {
	t.Parallel()

	f := analyze(t, `
struct S;

impl S {
    fn get(&self, key: &str) -> Option<String> { None }
}
`)

	require.NoError(t, f.ParseError)
	require.Len(t, f.Impls, 1)
	require.Len(t, f.Impls[0].Methods, 1)

	sig := analysis.Signature(f.Impls[0].Methods[0].Node)
	assert.Equal(t, "fn get(&self, key: &str) -> Option<String>", sig)
}
