package completion

import "github.com/nitsky/rust-analyzer/syntax"

// attrEntry is one completable attribute. Snippet entries carry tab
// stops and fall back to the label when snippets are disabled.
type attrEntry struct {
	label   string
	snippet string
}

// attributes is the built-in attribute table, alphabetical.
var attributes = []attrEntry{
	{label: "allow", snippet: "allow($0)"},
	{label: "cfg", snippet: "cfg($0)"},
	{label: "cfg_attr", snippet: "cfg_attr($1, $0)"},
	{label: "deny", snippet: "deny($0)"},
	{label: "deprecated", snippet: `deprecated = "$0"`},
	{label: "derive", snippet: "derive($0)"},
	{label: "doc", snippet: `doc = "$0"`},
	{label: "forbid", snippet: "forbid($0)"},
	{label: "ignore"},
	{label: "inline"},
	{label: "macro_export"},
	{label: "macro_use"},
	{label: "must_use"},
	{label: "no_mangle"},
	{label: "non_exhaustive"},
	{label: "path", snippet: `path = "$0"`},
	{label: "repr", snippet: "repr($0)"},
	{label: "test"},
	{label: "warn", snippet: "warn($0)"},
}

// derives is the built-in derive trait table.
var derives = []string{
	"Clone", "Copy", "Debug", "Default", "Eq", "Hash",
	"Ord", "PartialEq", "PartialOrd",
}

// completeAttribute fills attribute positions: the attribute name
// itself, lint names inside lint attributes, derive traits inside
// derive.
func completeAttribute(ctx *Context, acc *Completions) {
	if ctx.Tag != TagAttribute || ctx.Attr == nil {
		return
	}

	if insideAttrParens(ctx) {
		switch ctx.Attr.Name {
		case "allow", "warn", "deny", "forbid":
			completeLints(ctx, acc)
		case "derive":
			completeDerives(ctx, acc)
		}

		return
	}

	for _, entry := range attributes {
		b := ctx.NewBuilder(entry.label, KindAttribute)

		if entry.snippet != "" && ctx.Config.EnableSnippets {
			b.Snippet(entry.snippet)
		}

		acc.Add(b.Build())
	}
}

// insideAttrParens reports whether the cursor is past the attribute's
// opening parenthesis.
func insideAttrParens(ctx *Context) bool {
	for _, tok := range ctx.Attr.Args {
		if tok.Type == syntax.TokenLParen && tok.Pos.Offset < ctx.Offset {
			return true
		}
	}

	return false
}

func completeLints(ctx *Context, acc *Completions) {
	for _, lint := range lints {
		acc.Add(ctx.NewBuilder(lint.name, KindAttribute).
			Doc(lint.description).
			Build())
	}
}

func completeDerives(ctx *Context, acc *Completions) {
	for _, name := range derives {
		acc.Add(ctx.NewBuilder(name, KindAttribute).Build())
	}
}
