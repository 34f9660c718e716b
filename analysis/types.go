// Package analysis provides the semantic model the completion engine
// queries: symbol tables, lexical scopes, type inference, trait member
// resolution and macro expansion over parsed files. All queries are
// synchronous and side-effect free against an immutable snapshot.
package analysis

import (
	"github.com/nitsky/rust-analyzer/syntax"
)

// SymbolKind classifies a symbol.
type SymbolKind string

const (
	SymbolKindFunction SymbolKind = "function"
	SymbolKindMethod   SymbolKind = "method"
	SymbolKindStruct   SymbolKind = "struct"
	SymbolKindEnum     SymbolKind = "enum"
	SymbolKindVariant  SymbolKind = "variant"
	SymbolKindTrait    SymbolKind = "trait"
	SymbolKindField    SymbolKind = "field"
	SymbolKindConst    SymbolKind = "const"
	SymbolKindStatic   SymbolKind = "static"
	SymbolKindModule   SymbolKind = "module"
	SymbolKindMacro    SymbolKind = "macro"
	SymbolKindLocal    SymbolKind = "local"
)

// Symbol is the common header of every symbol.
type Symbol struct {
	Name string
	Kind SymbolKind
	Span syntax.Span
	Doc  string
	// FromMacro marks symbols produced by macro expansion.
	FromMacro bool
}

// FnSymbol is a free function or method.
type FnSymbol struct {
	Symbol

	Node *syntax.Fn
}

// StructSymbol is a struct declaration.
type StructSymbol struct {
	Symbol

	Node *syntax.Struct
}

// EnumSymbol is an enum declaration.
type EnumSymbol struct {
	Symbol

	Node *syntax.Enum
}

// TraitSymbol is a trait declaration.
type TraitSymbol struct {
	Symbol

	Node *syntax.Trait
}

// ConstSymbol is a const or static item.
type ConstSymbol struct {
	Symbol

	Static bool
	Node   *syntax.Const
}

// ModSymbol is a module declaration.
type ModSymbol struct {
	Symbol

	Inline bool
	Node   *syntax.Mod
}

// MacroSymbol is a macro_rules definition.
type MacroSymbol struct {
	Symbol

	Node *syntax.MacroDef
}

// UseSymbol is one use declaration.
type UseSymbol struct {
	Path  *syntax.Path
	Alias string
	Glob  bool
	Span  syntax.Span
}

// LocalName returns the name the use binds in scope.
func (u *UseSymbol) LocalName() string {
	if u.Alias != "" {
		return u.Alias
	}

	if u.Path == nil || len(u.Path.Segments) == 0 {
		return ""
	}

	return u.Path.Segments[len(u.Path.Segments)-1].Name
}

// ImplInfo is one impl block, resolved to its self type and trait name.
type ImplInfo struct {
	SelfName  string
	TraitName string // empty for inherent impls
	FromMacro bool
	Node      *syntax.Impl
	Methods   []*FnSymbol
}

// Inherent reports whether the impl is an inherent impl.
func (i *ImplInfo) Inherent() bool { return i.TraitName == "" }

// SymbolTable indexes the symbols of one file, including items produced
// by macro expansion.
type SymbolTable struct {
	Functions map[string]*FnSymbol
	Structs   map[string]*StructSymbol
	Enums     map[string]*EnumSymbol
	Traits    map[string]*TraitSymbol
	Consts    map[string]*ConstSymbol
	Mods      map[string]*ModSymbol
	Macros    map[string]*MacroSymbol
	Uses      []*UseSymbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Functions: make(map[string]*FnSymbol),
		Structs:   make(map[string]*StructSymbol),
		Enums:     make(map[string]*EnumSymbol),
		Traits:    make(map[string]*TraitSymbol),
		Consts:    make(map[string]*ConstSymbol),
		Mods:      make(map[string]*ModSymbol),
		Macros:    make(map[string]*MacroSymbol),
	}
}

// AnalyzedFile is the result of analyzing one source file.
type AnalyzedFile struct {
	Path       string
	Source     string
	File       *syntax.File
	ParseError error
	Symbols    *SymbolTable
	Impls      []*ImplInfo
}

// Type is the (deliberately small) semantic type representation: a
// named type behind zero or more references.
type Type struct {
	Name string
	Ref  int
}

// String renders the type in source-ish form.
func (t Type) String() string {
	s := t.Name
	for i := 0; i < t.Ref; i++ {
		s = "&" + s
	}

	return s
}

// Deref strips all reference levels.
func (t Type) Deref() Type {
	return Type{Name: t.Name}
}
