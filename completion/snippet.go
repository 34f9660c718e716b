package completion

// snippetEntry is one shorthand snippet.
type snippetEntry struct {
	label   string
	detail  string
	snippet string
}

var exprSnippets = []snippetEntry{
	{
		label:   "pd",
		detail:  "eprintln!(...)",
		snippet: `eprintln!("$0 = {:?}", $0);`,
	},
	{
		label:   "ppd",
		detail:  "eprintln!(...)",
		snippet: `eprintln!("$0 = {:#?}", $0);`,
	},
}

var itemSnippets = []snippetEntry{
	{
		label:   "tfn",
		detail:  "#[test] fn",
		snippet: "#[test]\nfn ${1:feature}() {\n    $0\n}",
	},
	{
		label:   "tmod",
		detail:  "#[cfg(test)] mod tests",
		snippet: "#[cfg(test)]\nmod tests {\n    use super::*;\n\n    #[test]\n    fn ${1:test_name}() {\n        $0\n    }\n}",
	},
}

// completeExprSnippet fills shorthand snippets in expression position.
func completeExprSnippet(ctx *Context, acc *Completions) {
	if !ctx.Config.EnableSnippets {
		return
	}

	if ctx.Tag != TagExpr || ctx.IsDot() || ctx.Qualifier != nil {
		return
	}

	for _, entry := range exprSnippets {
		acc.Add(ctx.NewBuilder(entry.label, KindSnippet).
			Detail(entry.detail).
			Snippet(entry.snippet).
			Build())
	}
}

// completeItemSnippet fills shorthand snippets in item position.
func completeItemSnippet(ctx *Context, acc *Completions) {
	if !ctx.Config.EnableSnippets || ctx.Tag != TagItem {
		return
	}

	for _, entry := range itemSnippets {
		acc.Add(ctx.NewBuilder(entry.label, KindSnippet).
			Detail(entry.detail).
			Snippet(entry.snippet).
			Build())
	}
}
