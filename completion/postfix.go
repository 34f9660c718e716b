package completion

import "strings"

// postfixEntry is one postfix template. The %s verb receives the
// receiver expression text.
type postfixEntry struct {
	label    string
	detail   string
	template string
	snippet  bool
}

// postfixTable is the full postfix set. All entries are emitted at
// every dot position; filtering against the typed suffix is the
// client's job.
var postfixTable = []postfixEntry{
	{label: "call", detail: "function(expr)", template: "${1}(%s)", snippet: true},
	{label: "dbg", detail: "dbg!(expr)", template: "dbg!(%s)"},
	{label: "dbgr", detail: "dbg!(&expr)", template: "dbg!(&%s)"},
	{label: "if", detail: "if expr {}", template: "if %s {\n    $0\n}", snippet: true},
	{label: "let", detail: "let $0 = expr;", template: "let $0 = %s;", snippet: true},
	{label: "letm", detail: "let mut $0 = expr;", template: "let mut $0 = %s;", snippet: true},
	{label: "match", detail: "match expr {}", template: "match %s {\n    ${1:_} => {$0},\n}", snippet: true},
	{label: "not", detail: "!expr", template: "!%s"},
	{label: "ref", detail: "&expr", template: "&%s"},
	{label: "refm", detail: "&mut expr", template: "&mut %s"},
	{label: "while", detail: "while expr {}", template: "while %s {\n    $0\n}", snippet: true},
}

// completePostfix fills the postfix battery after a dot. Each item
// replaces the receiver expression and the typed suffix with the
// template applied to the receiver text, so accepting `.not` on
// `bar.no` produces `!bar`.
func completePostfix(ctx *Context, acc *Completions) {
	if !ctx.IsDot() || !ctx.Config.EnablePostfix || ctx.DotRecv == nil {
		return
	}

	start := ctx.DotRecv.Span().Start.Offset
	end := ctx.DotRecv.Span().End.Offset

	if start < 0 || end > len(ctx.Source) || start >= end {
		return
	}

	recv := ctx.Source[start:end]

	// Option and Result receivers turn .if and .while into their
	// destructuring let forms.
	happy := ""

	if ctx.DotRecvTyped {
		switch ctx.DotRecvType.Deref().Name {
		case "Option":
			happy = "Some"
		case "Result":
			happy = "Ok"
		}
	}

	for _, entry := range postfixTable {
		if entry.snippet && !ctx.Config.EnableSnippets {
			continue
		}

		template := entry.template

		if happy != "" {
			switch entry.label {
			case "if":
				template = "if let " + happy + "($1) = %s {\n    $0\n}"
			case "while":
				template = "while let " + happy + "($1) = %s {\n    $0\n}"
			}
		}

		text := strings.Replace(template, "%s", recv, 1)

		b := ctx.NewBuilder(entry.label, KindSnippet).
			Detail(entry.detail).
			Replace(ctx.DotRange)

		if entry.snippet {
			b.Snippet(text)
		} else {
			b.Insert(text)
		}

		acc.Add(b.Build())
	}
}
