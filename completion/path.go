package completion

import (
	"sort"
	"strings"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/syntax"
)

// sortedNames returns a symbol map's keys in name order. Emission order
// is part of the result, so map iteration order must not leak into it.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// primitiveTypes is the built-in type table for type positions.
var primitiveTypes = []string{
	"bool", "char", "f32", "f64",
	"i8", "i16", "i32", "i64", "i128", "isize",
	"str", "u8", "u16", "u32", "u64", "u128", "usize",
}

// completeUnqualifiedPath fills bare-name positions from the lexical
// scope, plus importable items from other files when autoimport is on.
func completeUnqualifiedPath(ctx *Context, acc *Completions) {
	if ctx.Qualifier != nil || ctx.IsDot() {
		return
	}

	switch ctx.Tag {
	case TagExpr:
		for _, item := range ctx.Snapshot.ScopeAt(ctx.File, ctx.Offset) {
			acc.Add(scopeItem(ctx, item))
		}

		addImportables(ctx, acc, false)
	case TagType:
		for _, item := range ctx.Snapshot.ScopeAt(ctx.File, ctx.Offset) {
			switch item.Kind {
			case analysis.SymbolKindStruct, analysis.SymbolKindEnum,
				analysis.SymbolKindTrait, analysis.SymbolKindModule:
				acc.Add(scopeItem(ctx, item))
			}
		}

		for _, name := range primitiveTypes {
			acc.Add(ctx.NewBuilder(name, KindStruct).Detail("primitive").Build())
		}

		addImportables(ctx, acc, true)
	case TagUseTree:
		for _, name := range sortedNames(ctx.File.Symbols.Mods) {
			acc.Add(ctx.NewBuilder(name, KindModule).Detail("mod " + name).Build())
		}
	}
}

// addImportables adds flyimport candidates. They only appear once the
// user has typed something, so an empty position is not flooded with
// every public item of the project.
func addImportables(ctx *Context, acc *Completions, typesOnly bool) {
	if !ctx.Config.EnableAutoimport || ctx.Typed == "" {
		return
	}

	for _, imp := range ctx.Snapshot.Importables(ctx.File) {
		kind := kindForSymbol(imp.Kind)

		if typesOnly {
			switch imp.Kind {
			case analysis.SymbolKindStruct, analysis.SymbolKindEnum, analysis.SymbolKindTrait:
			default:
				continue
			}
		}

		acc.Add(ctx.NewBuilder(imp.Name, kind).
			Detail(imp.Detail).
			Doc(imp.Doc).
			Import(imp.UsePath).
			Build())
	}
}

// completeQualifiedPath fills `qualifier::` positions: enum variants,
// associated functions, trait members and module items.
func completeQualifiedPath(ctx *Context, acc *Completions) {
	if ctx.Qualifier == nil {
		return
	}

	switch ctx.Tag {
	case TagExpr, TagType, TagPattern, TagUseTree:
	default:
		return
	}

	segs := ctx.Qualifier.Segments
	if len(segs) == 0 {
		return
	}

	name := segs[len(segs)-1].Name

	// crate:: and self:: resolve to the current file's scope.
	if len(segs) == 1 && (name == "crate" || name == "self") {
		addFileItems(ctx, acc, ctx.File)

		return
	}

	if sym := ctx.Snapshot.EnumByName(ctx.File, name); sym != nil {
		addVariants(ctx, acc, sym)
		addAssociated(ctx, acc, name)

		return
	}

	if sym := ctx.Snapshot.StructByName(ctx.File, name); sym != nil {
		addAssociated(ctx, acc, name)

		return
	}

	if sym := ctx.Snapshot.TraitByName(ctx.File, name); sym != nil {
		for _, member := range sym.Node.Members {
			if member.Name == nil {
				continue
			}

			acc.Add(fnItem(ctx, member.Name.Name, member,
				analysis.DocText(member.Doc, member.Attrs), Relevance{}))
		}

		return
	}

	if sym, ok := ctx.File.Symbols.Mods[name]; ok {
		addModItems(ctx, acc, sym)

		return
	}
}

func addVariants(ctx *Context, acc *Completions, sym *analysis.EnumSymbol) {
	for _, v := range sym.Node.Variants {
		if v.Name == nil {
			continue
		}

		b := ctx.NewBuilder(v.Name.Name, KindVariant).
			Detail(variantDetail(sym.Name, v)).
			Doc(analysis.DocText(v.Doc, nil))

		if len(v.Tuple) > 0 && ctx.Config.EnableSnippets && ctx.Config.AddCallParens {
			b.Snippet(v.Name.Name + "($1)$0")
		}

		acc.Add(b.Build())
	}
}

func variantDetail(enumName string, v *syntax.Variant) string {
	detail := enumName + "::" + v.Name.Name

	if len(v.Tuple) > 0 {
		parts := make([]string, len(v.Tuple))
		for i, t := range v.Tuple {
			parts[i] = t.String()
		}

		detail += "(" + strings.Join(parts, ", ") + ")"
	}

	return detail
}

// addAssociated adds every function reachable through `Type::`,
// including methods (callable fully qualified).
func addAssociated(ctx *Context, acc *Completions, typeName string) {
	for _, m := range ctx.Snapshot.MethodsOf(ctx.File, typeName) {
		acc.Add(fnItem(ctx, m.Sym.Name, m.Sym.Node, m.Sym.Doc,
			Relevance{Inherent: m.TraitName == ""}))
	}
}

func addModItems(ctx *Context, acc *Completions, sym *analysis.ModSymbol) {
	if sym.Inline {
		for _, item := range sym.Node.Items {
			addItemNode(ctx, acc, item)
		}

		return
	}

	// File-backed module: find the analyzed sibling file.
	for _, f := range ctx.Snapshot.Files() {
		if f.Path != ctx.File.Path && fileStemMatches(f.Path, sym.Name) {
			addFileItems(ctx, acc, f)

			return
		}
	}
}

func fileStemMatches(path, name string) bool {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}

	return base == name+".rs"
}

// addFileItems converts every top-level symbol of a file to items.
func addFileItems(ctx *Context, acc *Completions, f *analysis.AnalyzedFile) {
	for _, name := range sortedNames(f.Symbols.Functions) {
		sym := f.Symbols.Functions[name]
		acc.Add(fnItem(ctx, name, sym.Node, sym.Doc, Relevance{}))
	}

	for _, name := range sortedNames(f.Symbols.Structs) {
		sym := f.Symbols.Structs[name]
		acc.Add(ctx.NewBuilder(name, KindStruct).Detail("struct " + name).Doc(sym.Doc).Build())
	}

	for _, name := range sortedNames(f.Symbols.Enums) {
		sym := f.Symbols.Enums[name]
		acc.Add(ctx.NewBuilder(name, KindEnum).Detail("enum " + name).Doc(sym.Doc).Build())
	}

	for _, name := range sortedNames(f.Symbols.Traits) {
		sym := f.Symbols.Traits[name]
		acc.Add(ctx.NewBuilder(name, KindTrait).Detail("trait " + name).Doc(sym.Doc).Build())
	}

	for _, name := range sortedNames(f.Symbols.Consts) {
		sym := f.Symbols.Consts[name]

		kind := KindConst
		if sym.Static {
			kind = KindStatic
		}

		acc.Add(ctx.NewBuilder(name, kind).Doc(sym.Doc).Build())
	}

	for _, name := range sortedNames(f.Symbols.Mods) {
		sym := f.Symbols.Mods[name]
		acc.Add(ctx.NewBuilder(name, KindModule).Detail("mod " + name).Doc(sym.Doc).Build())
	}

	for _, name := range sortedNames(f.Symbols.Macros) {
		acc.Add(macroItem(ctx, name, f.Symbols.Macros[name].Doc))
	}
}

func addItemNode(ctx *Context, acc *Completions, item syntax.Item) {
	switch item := item.(type) {
	case *syntax.Fn:
		if item.Name != nil {
			acc.Add(fnItem(ctx, item.Name.Name, item,
				analysis.DocText(item.Doc, item.Attrs), Relevance{}))
		}
	case *syntax.Struct:
		if item.Name != nil {
			acc.Add(ctx.NewBuilder(item.Name.Name, KindStruct).
				Detail("struct " + item.Name.Name).
				Doc(analysis.DocText(item.Doc, item.Attrs)).
				Build())
		}
	case *syntax.Enum:
		if item.Name != nil {
			acc.Add(ctx.NewBuilder(item.Name.Name, KindEnum).
				Detail("enum " + item.Name.Name).
				Doc(analysis.DocText(item.Doc, item.Attrs)).
				Build())
		}
	case *syntax.Const:
		if item.Name != nil {
			acc.Add(ctx.NewBuilder(item.Name.Name, KindConst).Build())
		}
	case *syntax.Mod:
		if item.Name != nil {
			acc.Add(ctx.NewBuilder(item.Name.Name, KindModule).
				Detail("mod " + item.Name.Name).
				Build())
		}
	}
}

// scopeItem converts one scope entry to a completion item.
func scopeItem(ctx *Context, item analysis.ScopeItem) Item {
	switch item.Kind {
	case analysis.SymbolKindFunction, analysis.SymbolKindMethod:
		return fnItem(ctx, item.Name, item.Fn, item.Doc, Relevance{})
	case analysis.SymbolKindMacro:
		return macroItem(ctx, item.Name, item.Doc)
	case analysis.SymbolKindLocal:
		return ctx.NewBuilder(item.Name, KindLocal).
			Detail(item.Detail).
			Relevance(Relevance{Local: true}).
			Build()
	default:
		return ctx.NewBuilder(item.Name, kindForSymbol(item.Kind)).
			Detail(item.Detail).
			Doc(item.Doc).
			Build()
	}
}

// fnItem builds a function or method item, with call parens when
// configured. The cursor lands between the parens only when the
// function takes arguments.
func fnItem(ctx *Context, name string, fn *syntax.Fn, doc string, rel Relevance) Item {
	b := ctx.NewBuilder(name, KindFunction).
		Detail(analysis.Signature(fn)).
		Doc(doc).
		Relevance(rel)

	if fn != nil && isMethod(fn) {
		b = ctx.NewBuilder(name, KindMethod).
			Detail(analysis.Signature(fn)).
			Doc(doc).
			Relevance(rel)
	}

	if !ctx.Config.AddCallParens {
		return b.Build()
	}

	if ctx.Config.EnableSnippets {
		if fnTakesArgs(fn) {
			b.Snippet(name + "($1)$0")
		} else {
			b.Snippet(name + "()$0")
		}
	} else {
		b.Insert(name + "()")
	}

	return b.Build()
}

func macroItem(ctx *Context, name, doc string) Item {
	b := ctx.NewBuilder(name+"!", KindMacro).Doc(doc)

	if ctx.Config.EnableSnippets {
		b.Snippet(name + "!($0)")
	} else {
		b.Insert(name + "!")
	}

	return b.Build()
}

func isMethod(fn *syntax.Fn) bool {
	if fn == nil {
		return false
	}

	for _, param := range fn.Params {
		if param.IsSelf {
			return true
		}
	}

	return false
}

// fnTakesArgs reports whether a call needs arguments beyond self.
func fnTakesArgs(fn *syntax.Fn) bool {
	if fn == nil {
		return false
	}

	for _, param := range fn.Params {
		if !param.IsSelf {
			return true
		}
	}

	return false
}

func kindForSymbol(kind analysis.SymbolKind) Kind {
	switch kind {
	case analysis.SymbolKindFunction:
		return KindFunction
	case analysis.SymbolKindMethod:
		return KindMethod
	case analysis.SymbolKindStruct:
		return KindStruct
	case analysis.SymbolKindEnum:
		return KindEnum
	case analysis.SymbolKindVariant:
		return KindVariant
	case analysis.SymbolKindTrait:
		return KindTrait
	case analysis.SymbolKindField:
		return KindField
	case analysis.SymbolKindConst:
		return KindConst
	case analysis.SymbolKindStatic:
		return KindStatic
	case analysis.SymbolKindModule:
		return KindModule
	case analysis.SymbolKindMacro:
		return KindMacro
	case analysis.SymbolKindLocal:
		return KindLocal
	default:
		return KindUnresolved
	}
}
