package completion

import "github.com/nitsky/rust-analyzer/syntax"

// completeFnParam offers whole `name: Type` parameters in function
// parameter position, reusing declarations from the other functions in
// the file. Typing the shared prefix of a habitual parameter completes
// the rest of it.
func completeFnParam(ctx *Context, acc *Completions) {
	if ctx.Tag != TagParam || ctx.File.File == nil {
		return
	}

	seen := make(map[string]bool)

	var visit func(fn *syntax.Fn)
	visit = func(fn *syntax.Fn) {
		// The function being written is the one holding the cursor.
		if fn.Span().Contains(ctx.Offset) {
			return
		}

		for _, param := range fn.Params {
			if param.IsSelf || param.Type == nil {
				continue
			}

			bind, ok := param.Pat.(*syntax.BindPat)
			if !ok || bind.Name == nil {
				continue
			}

			rendered := bind.Name.Name + ": " + param.Type.String()
			if seen[rendered] {
				continue
			}

			seen[rendered] = true

			acc.Add(ctx.NewBuilder(rendered, KindLocal).Build())
		}
	}

	for _, item := range ctx.File.File.Items {
		switch item := item.(type) {
		case *syntax.Fn:
			visit(item)
		case *syntax.Impl:
			for _, m := range item.Members {
				visit(m)
			}
		case *syntax.Trait:
			for _, m := range item.Members {
				visit(m)
			}
		}
	}
}
