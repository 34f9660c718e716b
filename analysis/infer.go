package analysis

import (
	"sort"

	"github.com/nitsky/rust-analyzer/syntax"
)

// maxInferDepth bounds recursive inference through let chains.
const maxInferDepth = 16

// InferExpr infers the type of an expression. The second return value
// reports whether inference succeeded; callers treat failure as "no
// type information", never as an error.
func (s *Snapshot) InferExpr(f *AnalyzedFile, expr syntax.Expr) (Type, bool) {
	return s.inferExpr(f, expr, 0)
}

//nolint:gocyclo // One arm per expression kind.
func (s *Snapshot) inferExpr(f *AnalyzedFile, expr syntax.Expr, depth int) (Type, bool) {
	if expr == nil || depth > maxInferDepth {
		return Type{}, false
	}

	switch expr := expr.(type) {
	case *syntax.Lit:
		return inferLit(expr)
	case *syntax.PathExpr:
		return s.inferPath(f, expr)
	case *syntax.CallExpr:
		return s.inferCall(f, expr)
	case *syntax.MethodCallExpr:
		return s.inferMethodCall(f, expr, depth)
	case *syntax.FieldExpr:
		return s.inferField(f, expr, depth)
	case *syntax.RecordExpr:
		if expr.Path != nil && len(expr.Path.Segments) > 0 {
			return Type{Name: expr.Path.Segments[len(expr.Path.Segments)-1].Name}, true
		}
	case *syntax.RefExpr:
		if ty, ok := s.inferExpr(f, expr.X, depth+1); ok {
			ty.Ref++

			return ty, true
		}
	case *syntax.ParenExpr:
		return s.inferExpr(f, expr.X, depth+1)
	case *syntax.BinExpr:
		if isComparisonOp(expr.Op) {
			return Type{Name: "bool"}, true
		}

		return s.inferExpr(f, expr.X, depth+1)
	case *syntax.UnaryExpr:
		if expr.Op == "!" {
			return Type{Name: "bool"}, true
		}

		return s.inferExpr(f, expr.X, depth+1)
	}

	return Type{}, false
}

func inferLit(lit *syntax.Lit) (Type, bool) {
	switch lit.Kind {
	case syntax.TokenString:
		return Type{Name: "str", Ref: 1}, true
	case syntax.TokenNumber:
		if hasFraction(lit.Text) {
			return Type{Name: "f64"}, true
		}

		return Type{Name: "i32"}, true
	case syntax.TokenChar:
		return Type{Name: "char"}, true
	case syntax.TokenTrue, syntax.TokenFalse:
		return Type{Name: "bool"}, true
	}

	return Type{}, false
}

func hasFraction(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] == '.' {
			return true
		}
	}

	return false
}

func (s *Snapshot) inferPath(f *AnalyzedFile, expr *syntax.PathExpr) (Type, bool) {
	if expr.Path == nil || len(expr.Path.Segments) == 0 {
		return Type{}, false
	}

	segs := expr.Path.Segments

	if len(segs) == 1 {
		name := segs[0].Name

		for _, local := range s.localsAt(f, expr.Span().Start.Offset) {
			if local.name == name {
				return local.ty, local.known
			}
		}

		if sym := s.constByName(f, name); sym != nil && sym.Node.Type != nil {
			return typeFromRef(sym.Node.Type), true
		}

		if sym := s.StructByName(f, name); sym != nil && sym.Node.Unit {
			return Type{Name: name}, true
		}

		// A bare unit variant of a prelude enum, e.g. None.
		if enumName := s.enumOfVariant(f, name); enumName != "" {
			return Type{Name: enumName}, true
		}

		return Type{}, false
	}

	// Enum::Variant has the enum's type.
	qualifier := segs[len(segs)-2].Name
	if sym := s.EnumByName(f, qualifier); sym != nil {
		return Type{Name: qualifier}, true
	}

	return Type{}, false
}

func (s *Snapshot) inferCall(f *AnalyzedFile, expr *syntax.CallExpr) (Type, bool) {
	pathExpr, ok := expr.Fun.(*syntax.PathExpr)
	if !ok || pathExpr.Path == nil || len(pathExpr.Path.Segments) == 0 {
		return Type{}, false
	}

	segs := pathExpr.Path.Segments
	name := segs[len(segs)-1].Name

	if len(segs) == 1 {
		if sym := s.fnByName(f, name); sym != nil {
			if sym.Node.Ret != nil {
				return typeFromRef(sym.Node.Ret), true
			}

			return Type{}, false
		}

		// Tuple struct constructor.
		if sym := s.StructByName(f, name); sym != nil && len(sym.Node.Tuple) > 0 {
			return Type{Name: name}, true
		}

		// Tuple variant constructor of a prelude enum, e.g. Some(1).
		if enumName := s.enumOfVariant(f, name); enumName != "" {
			return Type{Name: enumName}, true
		}

		return Type{}, false
	}

	// Enum::Variant(..) or Type::assoc_fn(..).
	qualifier := segs[len(segs)-2].Name

	if sym := s.EnumByName(f, qualifier); sym != nil {
		return Type{Name: qualifier}, true
	}

	for _, m := range s.MethodsOf(f, qualifier) {
		if m.Sym.Name == name && m.Sym.Node.Ret != nil {
			return s.resolveSelf(typeFromRef(m.Sym.Node.Ret), qualifier), true
		}
	}

	return Type{}, false
}

func (s *Snapshot) inferMethodCall(f *AnalyzedFile, expr *syntax.MethodCallExpr, depth int) (Type, bool) {
	if expr.Name == nil {
		return Type{}, false
	}

	recv, ok := s.inferExpr(f, expr.Recv, depth+1)
	if !ok {
		return Type{}, false
	}

	for _, m := range s.MethodsOf(f, recv.Deref().Name) {
		if m.Sym.Name == expr.Name.Name {
			if m.Sym.Node.Ret == nil {
				return Type{}, false
			}

			return s.resolveSelf(typeFromRef(m.Sym.Node.Ret), recv.Deref().Name), true
		}
	}

	return Type{}, false
}

func (s *Snapshot) inferField(f *AnalyzedFile, expr *syntax.FieldExpr, depth int) (Type, bool) {
	if expr.Name == nil {
		return Type{}, false
	}

	recv, ok := s.inferExpr(f, expr.Recv, depth+1)
	if !ok {
		return Type{}, false
	}

	for _, field := range s.FieldsOf(f, recv.Deref().Name) {
		if field.Name != nil && field.Name.Name == expr.Name.Name && field.Type != nil {
			return typeFromRef(field.Type), true
		}
	}

	return Type{}, false
}

// resolveSelf substitutes the receiver type for a `Self` return type.
func (s *Snapshot) resolveSelf(ty Type, selfName string) Type {
	if ty.Name == "Self" {
		ty.Name = selfName
	}

	return ty
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return true
	}

	return false
}

// ----------------------------------------------------------------------------
// Member resolution
// ----------------------------------------------------------------------------

// MethodInfo is one method callable on a type, with the impl it came
// from. TraitName is empty for inherent methods.
type MethodInfo struct {
	Sym       *FnSymbol
	TraitName string
	FromMacro bool
}

// MethodsOf returns the methods callable on the named type: inherent
// impl methods first, then trait impl methods, then unoverridden trait
// methods with default bodies. Duplicate names keep the first (most
// specific) entry.
func (s *Snapshot) MethodsOf(f *AnalyzedFile, typeName string) []MethodInfo {
	if typeName == "" {
		return nil
	}

	seen := make(map[string]bool)

	var out []MethodInfo

	add := func(m MethodInfo) {
		if m.Sym == nil || seen[m.Sym.Name] {
			return
		}

		seen[m.Sym.Name] = true

		out = append(out, m)
	}

	impls := s.implsOf(f, typeName)

	for _, impl := range impls {
		if !impl.Inherent() {
			continue
		}

		for _, m := range impl.Methods {
			add(MethodInfo{Sym: m, FromMacro: impl.FromMacro})
		}
	}

	for _, impl := range impls {
		if impl.Inherent() {
			continue
		}

		for _, m := range impl.Methods {
			add(MethodInfo{Sym: m, TraitName: impl.TraitName, FromMacro: impl.FromMacro})
		}

		// Defaulted trait methods the impl does not override.
		if trait := s.TraitByName(f, impl.TraitName); trait != nil {
			for _, member := range trait.Node.Members {
				if member.Name == nil || member.Body == nil {
					continue
				}

				add(MethodInfo{
					Sym: &FnSymbol{
						Symbol: Symbol{
							Name: member.Name.Name,
							Kind: SymbolKindMethod,
							Span: member.Span(),
							Doc:  DocText(member.Doc, member.Attrs),
						},
						Node: member,
					},
					TraitName: impl.TraitName,
				})
			}
		}
	}

	return out
}

func (s *Snapshot) implsOf(f *AnalyzedFile, typeName string) []*ImplInfo {
	var out []*ImplInfo

	for _, impl := range f.Impls {
		if impl.SelfName == typeName {
			out = append(out, impl)
		}
	}

	for _, other := range s.Files() {
		if other.Path == f.Path {
			continue
		}

		for _, impl := range other.Impls {
			if impl.SelfName == typeName {
				out = append(out, impl)
			}
		}
	}

	for _, impl := range Prelude().Impls {
		if impl.SelfName == typeName {
			out = append(out, impl)
		}
	}

	return out
}

// FieldsOf returns the named fields of a struct type.
func (s *Snapshot) FieldsOf(f *AnalyzedFile, typeName string) []*syntax.Field {
	sym := s.StructByName(f, typeName)
	if sym == nil {
		return nil
	}

	return sym.Node.Fields
}

// VariantsOf returns the variants of an enum type.
func (s *Snapshot) VariantsOf(f *AnalyzedFile, enumName string) []*syntax.Variant {
	sym := s.EnumByName(f, enumName)
	if sym == nil {
		return nil
	}

	return sym.Node.Variants
}

// StructByName resolves a struct in the file, the rest of the snapshot,
// or the prelude.
func (s *Snapshot) StructByName(f *AnalyzedFile, name string) *StructSymbol {
	for _, file := range s.lookupOrder(f) {
		if sym, ok := file.Symbols.Structs[name]; ok {
			return sym
		}
	}

	return nil
}

// EnumByName resolves an enum like StructByName.
func (s *Snapshot) EnumByName(f *AnalyzedFile, name string) *EnumSymbol {
	for _, file := range s.lookupOrder(f) {
		if sym, ok := file.Symbols.Enums[name]; ok {
			return sym
		}
	}

	return nil
}

// TraitByName resolves a trait like StructByName.
func (s *Snapshot) TraitByName(f *AnalyzedFile, name string) *TraitSymbol {
	if name == "" {
		return nil
	}

	for _, file := range s.lookupOrder(f) {
		if sym, ok := file.Symbols.Traits[name]; ok {
			return sym
		}
	}

	return nil
}

func (s *Snapshot) fnByName(f *AnalyzedFile, name string) *FnSymbol {
	for _, file := range s.lookupOrder(f) {
		if sym, ok := file.Symbols.Functions[name]; ok {
			return sym
		}
	}

	return nil
}

func (s *Snapshot) constByName(f *AnalyzedFile, name string) *ConstSymbol {
	for _, file := range s.lookupOrder(f) {
		if sym, ok := file.Symbols.Consts[name]; ok {
			return sym
		}
	}

	return nil
}

// enumOfVariant returns the enum declaring a variant name, for bare
// variant references like Some or Ok.
func (s *Snapshot) enumOfVariant(f *AnalyzedFile, variant string) string {
	for _, file := range s.lookupOrder(f) {
		names := make([]string, 0, len(file.Symbols.Enums))
		for name := range file.Symbols.Enums {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			for _, v := range file.Symbols.Enums[name].Node.Variants {
				if v.Name != nil && v.Name.Name == variant {
					return name
				}
			}
		}
	}

	return ""
}

// lookupOrder is the resolution order for named items: the current
// file, then the rest of the snapshot, then the prelude.
func (s *Snapshot) lookupOrder(f *AnalyzedFile) []*AnalyzedFile {
	out := []*AnalyzedFile{f}

	for _, other := range s.Files() {
		if other.Path != f.Path {
			out = append(out, other)
		}
	}

	return append(out, Prelude())
}

// UnimplementedMembers returns the trait methods an impl block has not
// defined yet, in trait declaration order.
func (s *Snapshot) UnimplementedMembers(f *AnalyzedFile, impl *syntax.Impl) []*syntax.Fn {
	if impl == nil || impl.TraitPath == nil || len(impl.TraitPath.Segments) == 0 {
		return nil
	}

	trait := s.TraitByName(f, impl.TraitPath.Segments[len(impl.TraitPath.Segments)-1].Name)
	if trait == nil {
		return nil
	}

	defined := make(map[string]bool)

	for _, m := range impl.Members {
		if m.Name != nil {
			defined[m.Name.Name] = true
		}
	}

	var out []*syntax.Fn

	for _, member := range trait.Node.Members {
		if member.Name == nil || defined[member.Name.Name] {
			continue
		}

		out = append(out, member)
	}

	return out
}
