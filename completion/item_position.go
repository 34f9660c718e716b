package completion

import (
	"strings"

	"github.com/nitsky/rust-analyzer/analysis"
)

// completeMacroInItemPosition offers invocable macros where an item is
// expected. Unlike expression positions, only macros apply here, so the
// unqualified-path strategy stays out of item slots.
func completeMacroInItemPosition(ctx *Context, acc *Completions) {
	if ctx.Tag != TagItem && ctx.Tag != TagTraitImpl {
		return
	}

	add := func(f *analysis.AnalyzedFile) {
		for _, name := range sortedNames(f.Symbols.Macros) {
			acc.Add(macroItem(ctx, name, f.Symbols.Macros[name].Doc))
		}
	}

	add(ctx.File)
	add(analysis.Prelude())
}

// completeTraitImpl offers stubs for the trait methods an impl block
// has not defined. Accepting one inserts the full signature with an
// empty body.
func completeTraitImpl(ctx *Context, acc *Completions) {
	if ctx.Tag != TagTraitImpl || ctx.EnclosingImpl == nil {
		return
	}

	for _, member := range ctx.Snapshot.UnimplementedMembers(ctx.File, ctx.EnclosingImpl) {
		if member.Name == nil {
			continue
		}

		signature := analysis.Signature(member)

		b := ctx.NewBuilder(signature, KindMethod).
			Doc(analysis.DocText(member.Doc, member.Attrs))

		if ctx.Config.EnableSnippets {
			b.Snippet(signature + " {\n    $0\n}")
		} else {
			b.Insert(signature + " {}")
		}

		acc.Add(b.Build())
	}
}

// completeMod offers undeclared sibling files and directories as module
// names after the `mod` keyword.
func completeMod(ctx *Context, acc *Completions) {
	if ctx.Tag != TagMod {
		return
	}

	for _, name := range ctx.Snapshot.Submodules(ctx.File) {
		insert := name + ";"

		// Inside an existing `mod x;` the semicolon is already there.
		if strings.HasPrefix(strings.TrimLeft(ctx.Source[ctx.TypedRange.End.Offset:], " "), ";") {
			insert = name
		}

		acc.Add(ctx.NewBuilder(name, KindModule).Insert(insert).Build())
	}
}
