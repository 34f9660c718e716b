package completion

import "github.com/nitsky/rust-analyzer/syntax"

// completeRecord fills the missing fields of a struct literal or struct
// pattern. Fields already written are not offered again.
func completeRecord(ctx *Context, acc *Completions) {
	var (
		path    *syntax.Path
		present map[string]bool
	)

	switch ctx.Tag {
	case TagRecordField:
		path = ctx.RecordLit.Path
		present = make(map[string]bool)

		for _, field := range ctx.RecordLit.Fields {
			if field.Name != nil && field.Value != nil {
				present[field.Name.Name] = true
			}
		}
	case TagRecordPattern:
		path = ctx.RecordPat.Path
		present = make(map[string]bool)

		for _, field := range ctx.RecordPat.Fields {
			if field.Name != nil && field.Pat != nil {
				present[field.Name.Name] = true
			}
		}
	default:
		return
	}

	if path == nil || len(path.Segments) == 0 {
		return
	}

	typeName := path.Segments[len(path.Segments)-1].Name

	for _, field := range ctx.Snapshot.FieldsOf(ctx.File, typeName) {
		if field.Name == nil || present[field.Name.Name] {
			continue
		}

		detail := ""
		if field.Type != nil {
			detail = field.Type.String()
		}

		b := ctx.NewBuilder(field.Name.Name, KindField).Detail(detail)

		if ctx.Tag == TagRecordField && ctx.Config.EnableSnippets {
			b.Snippet(field.Name.Name + ": $0")
		}

		acc.Add(b.Build())
	}
}
