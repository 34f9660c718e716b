package completion

// keywordEntry is one keyword with an optional block snippet.
type keywordEntry struct {
	label   string
	snippet string
}

var exprKeywords = []keywordEntry{
	{label: "if", snippet: "if $1 {\n    $0\n}"},
	{label: "match", snippet: "match $1 {\n    $0\n}"},
	{label: "while", snippet: "while $1 {\n    $0\n}"},
	{label: "loop", snippet: "loop {\n    $0\n}"},
	{label: "for", snippet: "for $1 in $2 {\n    $0\n}"},
	{label: "true"},
	{label: "false"},
	{label: "unsafe", snippet: "unsafe {\n    $0\n}"},
}

var itemKeywords = []keywordEntry{
	{label: "fn", snippet: "fn $1($2) {\n    $0\n}"},
	{label: "struct", snippet: "struct $0"},
	{label: "enum", snippet: "enum $1 {\n    $0\n}"},
	{label: "trait", snippet: "trait $1 {\n    $0\n}"},
	{label: "impl", snippet: "impl $1 {\n    $0\n}"},
	{label: "use", snippet: "use $0"},
	{label: "mod", snippet: "mod $0"},
	{label: "const", snippet: "const $0"},
	{label: "static", snippet: "static $0"},
	{label: "pub"},
	{label: "unsafe"},
}

var implItemKeywords = []keywordEntry{
	{label: "fn", snippet: "fn $1($2) {\n    $0\n}"},
	{label: "const", snippet: "const $0"},
	{label: "pub"},
	{label: "unsafe"},
}

// completeExprKeyword fills keyword candidates for expression, item and
// impl-member positions. Position-dependent keywords (else, break,
// continue, let, self) are gated on the surroundings.
func completeExprKeyword(ctx *Context, acc *Completions) {
	switch ctx.Tag {
	case TagExpr:
		if ctx.IsDot() || ctx.Qualifier != nil {
			return
		}

		addKeywords(ctx, acc, exprKeywords)
		addReturn(ctx, acc)

		if ctx.atStmtStart() {
			addKeyword(ctx, acc, keywordEntry{label: "let", snippet: "let $0"})
		}

		if ctx.PrevStmtIsIf() {
			addKeyword(ctx, acc, keywordEntry{label: "else", snippet: "else {\n    $0\n}"})
			addKeyword(ctx, acc, keywordEntry{label: "else if", snippet: "else if $1 {\n    $0\n}"})
		}

		if ctx.InLoop {
			addKeyword(ctx, acc, keywordEntry{label: "break"})
			addKeyword(ctx, acc, keywordEntry{label: "continue"})
		}

		if fnHasSelfParam(ctx) {
			addKeyword(ctx, acc, keywordEntry{label: "self"})
		}
	case TagItem:
		addKeywords(ctx, acc, itemKeywords)
	case TagTraitImpl:
		addKeywords(ctx, acc, implItemKeywords)
	case TagType:
		if ctx.Qualifier == nil {
			addKeyword(ctx, acc, keywordEntry{label: "dyn"})
			addKeyword(ctx, acc, keywordEntry{label: "impl"})
		}
	}
}

// completeUseTreeKeyword fills the path starters inside use trees.
func completeUseTreeKeyword(ctx *Context, acc *Completions) {
	if ctx.Tag != TagUseTree {
		return
	}

	if ctx.Qualifier == nil {
		addKeyword(ctx, acc, keywordEntry{label: "crate", snippet: "crate::$0"})
		addKeyword(ctx, acc, keywordEntry{label: "super", snippet: "super::$0"})
	}

	// `use foo::{self}` style self import is valid after any qualifier.
	addKeyword(ctx, acc, keywordEntry{label: "self"})
}

// addReturn adds the return keyword. In a function with a result type
// a value must follow, so the insertion leaves the cursor after a
// space; otherwise the statement is complete and gets its semicolon.
func addReturn(ctx *Context, acc *Completions) {
	b := ctx.NewBuilder("return", KindKeyword)

	if ctx.EnclosingFn != nil && ctx.EnclosingFn.Ret != nil {
		b.Insert("return ")
	} else {
		b.Insert("return;")
	}

	acc.Add(b.Build())
}

func addKeywords(ctx *Context, acc *Completions, entries []keywordEntry) {
	for _, entry := range entries {
		addKeyword(ctx, acc, entry)
	}
}

func addKeyword(ctx *Context, acc *Completions, entry keywordEntry) {
	b := ctx.NewBuilder(entry.label, KindKeyword)

	if entry.snippet != "" && ctx.Config.EnableSnippets {
		b.Snippet(entry.snippet)
	}

	acc.Add(b.Build())
}

func fnHasSelfParam(ctx *Context) bool {
	if ctx.EnclosingFn == nil {
		return false
	}

	for _, param := range ctx.EnclosingFn.Params {
		if param.IsSelf {
			return true
		}
	}

	return false
}
