package completion

import "github.com/nitsky/rust-analyzer/analysis"

// completeDot fills fields and methods after a dot. Without a receiver
// type nothing is offered; the postfix strategy still runs on untyped
// receivers.
func completeDot(ctx *Context, acc *Completions) {
	if !ctx.IsDot() || !ctx.DotRecvTyped {
		return
	}

	typeName := ctx.DotRecvType.Deref().Name

	for _, field := range ctx.Snapshot.FieldsOf(ctx.File, typeName) {
		if field.Name == nil {
			continue
		}

		detail := ""
		if field.Type != nil {
			detail = field.Type.String()
		}

		acc.Add(ctx.NewBuilder(field.Name.Name, KindField).
			Detail(detail).
			Doc(analysis.DocText(field.Doc, nil)).
			Build())
	}

	for _, m := range ctx.Snapshot.MethodsOf(ctx.File, typeName) {
		// Associated functions without self are not callable with dot.
		if !isMethod(m.Sym.Node) {
			continue
		}

		acc.Add(fnItem(ctx, m.Sym.Name, m.Sym.Node, m.Sym.Doc,
			Relevance{Inherent: m.TraitName == ""}))
	}
}
