// Package completion implements the completion engine: given an
// analyzed snapshot and a cursor offset it produces the full candidate
// set for that position. Candidates are not filtered against the
// partially typed identifier; ranking and filtering against what the
// user typed is the editor's job.
package completion

import (
	"fmt"

	"github.com/nitsky/rust-analyzer/syntax"
)

// Kind classifies a completion item for editor presentation.
type Kind string

const (
	KindKeyword    Kind = "keyword"
	KindSnippet    Kind = "snippet"
	KindFunction   Kind = "function"
	KindMethod     Kind = "method"
	KindStruct     Kind = "struct"
	KindEnum       Kind = "enum"
	KindVariant    Kind = "variant"
	KindTrait      Kind = "trait"
	KindField      Kind = "field"
	KindConst      Kind = "const"
	KindStatic     Kind = "static"
	KindModule     Kind = "module"
	KindMacro      Kind = "macro"
	KindLocal      Kind = "local"
	KindAttribute  Kind = "attribute"
	KindTypeParam  Kind = "type parameter"
	KindUnresolved Kind = "unresolved"
)

// InsertFormat says how InsertText is to be interpreted.
type InsertFormat int

const (
	// PlainText inserts the text verbatim.
	PlainText InsertFormat = iota
	// SnippetText contains tab stops in LSP snippet syntax ($0, $1, ...).
	SnippetText
)

// Relevance carries the boolean ranking signals of one item. The editor
// combines them with its own fuzzy-match score.
type Relevance struct {
	// ExactTypeMatch is set when the item's type equals the type
	// expected at the cursor.
	ExactTypeMatch bool
	// Local is set for local bindings, which rank above items.
	Local bool
	// Inherent is set for inherent (non-trait) methods.
	Inherent bool
}

// Score folds the relevance signals into a sortable value, higher is
// more relevant.
func (r Relevance) Score() int {
	score := 0

	if r.ExactTypeMatch {
		score += 4
	}

	if r.Local {
		score += 2
	}

	if r.Inherent {
		score++
	}

	return score
}

// Item is one completion candidate.
type Item struct {
	Label  string
	Kind   Kind
	Detail string
	Doc    string

	// InsertText is the text to insert over ReplaceRange. Empty means
	// insert the label.
	InsertText   string
	InsertFormat InsertFormat

	// ReplaceRange is the source range the insertion replaces. It
	// always covers the partially typed identifier, and for postfix
	// completions extends back over the receiver expression.
	ReplaceRange syntax.Span

	// ImportPath, when non-empty, is the use path that must be added
	// for the item to resolve.
	ImportPath string

	Deprecated bool
	Relevance  Relevance
}

// Text returns the text the item inserts.
func (i *Item) Text() string {
	if i.InsertText != "" {
		return i.InsertText
	}

	return i.Label
}

// Builder assembles an Item against a context, validating the
// replacement range on build. Strategies construct every item through
// it; an out-of-range replacement is a strategy defect and panics,
// which the dispatcher absorbs.
type Builder struct {
	ctx  *Context
	item Item
}

// NewBuilder starts an item with the context's default replacement
// range, the span of the partially typed identifier.
func (ctx *Context) NewBuilder(label string, kind Kind) *Builder {
	return &Builder{
		ctx: ctx,
		item: Item{
			Label:        label,
			Kind:         kind,
			ReplaceRange: ctx.TypedRange,
		},
	}
}

func (b *Builder) Detail(detail string) *Builder {
	b.item.Detail = detail

	return b
}

func (b *Builder) Doc(doc string) *Builder {
	b.item.Doc = doc

	return b
}

// Insert sets a plain-text insertion differing from the label.
func (b *Builder) Insert(text string) *Builder {
	b.item.InsertText = text
	b.item.InsertFormat = PlainText

	return b
}

// Snippet sets a snippet insertion with tab stops.
func (b *Builder) Snippet(text string) *Builder {
	b.item.InsertText = text
	b.item.InsertFormat = SnippetText

	return b
}

// Replace widens or narrows the replacement range.
func (b *Builder) Replace(span syntax.Span) *Builder {
	b.item.ReplaceRange = span

	return b
}

func (b *Builder) Import(path string) *Builder {
	b.item.ImportPath = path

	return b
}

func (b *Builder) Deprecated() *Builder {
	b.item.Deprecated = true

	return b
}

func (b *Builder) Relevance(r Relevance) *Builder {
	b.item.Relevance = r

	return b
}

// Build validates and returns the item.
func (b *Builder) Build() Item {
	r := b.item.ReplaceRange

	if r.Start.Offset > r.End.Offset ||
		r.Start.Offset < 0 ||
		r.End.Offset > len(b.ctx.Source) {
		panic(fmt.Sprintf(
			"completion: item %q has replacement range [%d,%d) outside source of length %d",
			b.item.Label, r.Start.Offset, r.End.Offset, len(b.ctx.Source),
		))
	}

	return b.item
}
