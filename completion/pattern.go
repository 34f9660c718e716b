package completion

import "github.com/nitsky/rust-analyzer/analysis"

// completePattern fills refutable pattern positions with the matchable
// names in scope: enum variants under their enum path, structs and
// consts. Local bindings are not offered; a bare name in a pattern
// creates a binding instead of matching one.
func completePattern(ctx *Context, acc *Completions) {
	if ctx.Tag != TagPattern || ctx.Qualifier != nil {
		return
	}

	for _, f := range append(ctx.Snapshot.Files(), analysis.Prelude()) {
		for _, enumName := range sortedNames(f.Symbols.Enums) {
			sym := f.Symbols.Enums[enumName]

			for _, v := range sym.Node.Variants {
				if v.Name == nil {
					continue
				}

				label := enumName + "::" + v.Name.Name

				b := ctx.NewBuilder(label, KindVariant).
					Detail(variantDetail(enumName, v))

				if len(v.Tuple) > 0 && ctx.Config.EnableSnippets {
					b.Snippet(label + "($1)$0")
				}

				acc.Add(b.Build())
			}
		}

		for _, name := range sortedNames(f.Symbols.Structs) {
			b := ctx.NewBuilder(name, KindStruct).Detail("struct " + name)

			if len(f.Symbols.Structs[name].Node.Fields) > 0 && ctx.Config.EnableSnippets {
				b.Snippet(name + " { $0 }")
			}

			acc.Add(b.Build())
		}

		for _, name := range sortedNames(f.Symbols.Consts) {
			acc.Add(ctx.NewBuilder(name, KindConst).Build())
		}
	}
}
