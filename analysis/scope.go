package analysis

import (
	"sort"

	"github.com/nitsky/rust-analyzer/syntax"
)

// ScopeItem is one name visible at a position: a local binding, a
// file-level item, an imported name or a prelude built-in.
type ScopeItem struct {
	Name      string
	Kind      SymbolKind
	Detail    string
	Doc       string
	FromMacro bool

	// Type is the inferred type of a local binding; TypeKnown reports
	// whether inference succeeded.
	Type      Type
	TypeKnown bool

	// Fn is set for functions and methods so callers can build call
	// snippets from the parameter list.
	Fn *syntax.Fn
}

// ScopeAt returns every name visible at the byte offset: innermost
// locals, the file's items, names bound by use declarations, and the
// prelude. Shadowed names appear once, with the innermost binding
// winning. Results are sorted by name.
func (s *Snapshot) ScopeAt(f *AnalyzedFile, offset int) []ScopeItem {
	seen := make(map[string]bool)

	var out []ScopeItem

	add := func(item ScopeItem) {
		if item.Name == "" || seen[item.Name] {
			return
		}

		seen[item.Name] = true

		out = append(out, item)
	}

	for _, local := range s.localsAt(f, offset) {
		item := ScopeItem{
			Name:      local.name,
			Kind:      SymbolKindLocal,
			Type:      local.ty,
			TypeKnown: local.known,
		}
		if local.known {
			item.Detail = local.ty.String()
		}

		add(item)
	}

	addFileScope(f, add)

	for _, use := range f.Symbols.Uses {
		if use.Glob {
			continue
		}

		add(ScopeItem{
			Name:   use.LocalName(),
			Kind:   SymbolKindModule,
			Detail: "use " + use.Path.String(),
		})
	}

	addFileScope(Prelude(), add)

	addPreludeVariants(add)

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func addFileScope(f *AnalyzedFile, add func(ScopeItem)) {
	for name, sym := range f.Symbols.Functions {
		add(ScopeItem{
			Name:      name,
			Kind:      SymbolKindFunction,
			Detail:    Signature(sym.Node),
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
			Fn:        sym.Node,
		})
	}

	for name, sym := range f.Symbols.Structs {
		add(ScopeItem{
			Name:      name,
			Kind:      SymbolKindStruct,
			Detail:    "struct " + name,
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
		})
	}

	for name, sym := range f.Symbols.Enums {
		add(ScopeItem{
			Name:      name,
			Kind:      SymbolKindEnum,
			Detail:    "enum " + name,
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
		})
	}

	for name, sym := range f.Symbols.Traits {
		add(ScopeItem{
			Name:      name,
			Kind:      SymbolKindTrait,
			Detail:    "trait " + name,
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
		})
	}

	for name, sym := range f.Symbols.Consts {
		detail := "const " + name
		if sym.Static {
			detail = "static " + name
		}

		if sym.Node != nil && sym.Node.Type != nil {
			detail += ": " + sym.Node.Type.String()
		}

		add(ScopeItem{
			Name:      name,
			Kind:      sym.Kind,
			Detail:    detail,
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
		})
	}

	for name, sym := range f.Symbols.Mods {
		add(ScopeItem{
			Name:      name,
			Kind:      SymbolKindModule,
			Detail:    "mod " + name,
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
		})
	}

	for name, sym := range f.Symbols.Macros {
		add(ScopeItem{
			Name:      name,
			Kind:      SymbolKindMacro,
			Detail:    name + "!",
			Doc:       sym.Doc,
			FromMacro: sym.FromMacro,
		})
	}
}

func addPreludeVariants(add func(ScopeItem)) {
	for _, enumName := range []string{"Option", "Result"} {
		sym, ok := Prelude().Symbols.Enums[enumName]
		if !ok {
			continue
		}

		for _, v := range sym.Node.Variants {
			if v.Name == nil {
				continue
			}

			add(ScopeItem{
				Name:   v.Name.Name,
				Kind:   SymbolKindVariant,
				Detail: enumName + "::" + v.Name.Name,
			})
		}
	}
}

// ----------------------------------------------------------------------------
// Local bindings
// ----------------------------------------------------------------------------

type localBinding struct {
	name  string
	ty    Type
	known bool
}

// localsAt collects the local bindings in scope at the offset: function
// parameters, let bindings textually before the cursor, for-loop and
// match-arm pattern bindings whose body contains the cursor.
func (s *Snapshot) localsAt(f *AnalyzedFile, offset int) []localBinding {
	if f.File == nil {
		return nil
	}

	ancestors := syntax.AncestorsAt(f.File, offset)

	var selfName string

	for _, anc := range ancestors {
		if impl, ok := anc.(*syntax.Impl); ok && impl.SelfType != nil {
			selfName = impl.SelfType.Named()
		}
	}

	var out []localBinding

	// Innermost first, so shadowing bindings win name deduplication.
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch anc := ancestors[i].(type) {
		case *syntax.Fn:
			for _, param := range anc.Params {
				out = append(out, s.paramBinding(param, selfName)...)
			}
		case *syntax.Block:
			for j := len(anc.Stmts) - 1; j >= 0; j-- {
				let, ok := anc.Stmts[j].(*syntax.LetStmt)
				if !ok || let.Span().End.Offset > offset {
					continue
				}

				out = append(out, s.letBindings(f, let)...)
			}
		case *syntax.ForExpr:
			if anc.Body != nil && anc.Body.Span().Contains(offset) {
				for _, name := range patNames(anc.Pat) {
					out = append(out, localBinding{name: name})
				}
			}
		case *syntax.MatchArm:
			for _, name := range patNames(anc.Pat) {
				out = append(out, localBinding{name: name})
			}
		}
	}

	return out
}

func (s *Snapshot) paramBinding(param *syntax.Param, selfName string) []localBinding {
	if param.IsSelf {
		b := localBinding{name: "self"}
		if selfName != "" {
			b.ty = Type{Name: selfName}
			b.known = true

			if param.RefSelf {
				b.ty.Ref = 1
			}
		}

		return []localBinding{b}
	}

	var out []localBinding

	for _, name := range patNames(param.Pat) {
		b := localBinding{name: name}
		if param.Type != nil {
			b.ty = typeFromRef(param.Type)
			b.known = true
		}

		out = append(out, b)
	}

	return out
}

func (s *Snapshot) letBindings(f *AnalyzedFile, let *syntax.LetStmt) []localBinding {
	var (
		ty    Type
		known bool
	)

	switch {
	case let.Type != nil:
		ty = typeFromRef(let.Type)
		known = true
	case let.Init != nil:
		ty, known = s.InferExpr(f, let.Init)
	}

	var out []localBinding

	for _, name := range patNames(let.Pat) {
		out = append(out, localBinding{name: name, ty: ty, known: known})
	}

	return out
}

// patNames collects every name a pattern binds.
func patNames(pat syntax.Pat) []string {
	var out []string

	var walk func(p syntax.Pat)
	walk = func(p syntax.Pat) {
		switch p := p.(type) {
		case *syntax.BindPat:
			if p.Name != nil {
				out = append(out, p.Name.Name)
			}
		case *syntax.TuplePat:
			for _, elem := range p.Elems {
				walk(elem)
			}
		case *syntax.RecordPat:
			for _, field := range p.Fields {
				if field.Pat != nil {
					walk(field.Pat)
				} else if field.Name != nil {
					out = append(out, field.Name.Name)
				}
			}
		}
	}

	if pat != nil {
		walk(pat)
	}

	return out
}

func typeFromRef(ref *syntax.TypeRef) Type {
	return Type{Name: ref.Named(), Ref: ref.RefDepth}
}
