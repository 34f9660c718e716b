// Package syntax provides a lexer and an error-tolerant parser for the
// Rust subset understood by the completion engine. The parser prefers a
// partial tree over a failed parse: completion has to work on files that
// are mid-edit and do not parse cleanly.
package syntax

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Span is a half-open source range covering a node or token.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// Contains reports whether the byte offset lies within the span,
// inclusive of the end so a cursor just past the last character of a
// node still counts as inside it.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset <= s.End.Offset
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Node is implemented by every AST node.
type Node interface {
	Span() Span
}

type spanned struct {
	span Span
}

func (s *spanned) Span() Span { return s.span }

// Item is an item-level declaration.
type Item interface {
	Node
	itemNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Pat is a pattern.
type Pat interface {
	Node
	patNode()
}

// Stmt is a block-level statement.
type Stmt interface {
	Node
	stmtNode()
}

// File is a parsed source file.
type File struct {
	spanned

	Items []Item
}

// Ident is a name with its source span.
type Ident struct {
	spanned

	Name string
}

// Attr is an outer or inner attribute. Argument tokens inside the
// brackets are kept raw; completion only needs their spans and text.
type Attr struct {
	spanned

	Inner bool
	Name  string
	Args  []lexer.Token
}

// Path is a  possibly qualified name: a::b::c.
type Path struct {
	spanned

	Segments []*PathSegment
}

// PathSegment is one segment of a path with optional generic arguments.
type PathSegment struct {
	spanned

	Name string
	Args []*TypeRef
}

// String renders the path without generic arguments.
func (p *Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		parts[i] = seg.Name
	}

	return strings.Join(parts, "::")
}

// Qualifier returns the path without its final segment, or nil when the
// path has a single segment.
func (p *Path) Qualifier() *Path {
	if len(p.Segments) < 2 {
		return nil
	}

	q := &Path{Segments: p.Segments[:len(p.Segments)-1]}
	q.span = Span{Start: p.span.Start, End: q.Segments[len(q.Segments)-1].span.End}

	return q
}

// TypeRef is a reference to a type: zero or more & levels, an optional
// lifetime and mutability on the outermost reference, then a path.
type TypeRef struct {
	spanned

	RefDepth int
	Lifetime string // includes the leading quote, e.g. "'static"
	Mut      bool
	Path     *Path
}

// String renders the type reference in source form.
func (t *TypeRef) String() string {
	var b strings.Builder

	for i := 0; i < t.RefDepth; i++ {
		b.WriteByte('&')

		if i == 0 {
			if t.Lifetime != "" {
				b.WriteString(t.Lifetime)
				b.WriteByte(' ')
			}

			if t.Mut {
				b.WriteString("mut ")
			}
		}
	}

	if t.Path != nil {
		b.WriteString(t.Path.String())

		if args := t.Path.Segments[len(t.Path.Segments)-1].Args; len(args) > 0 {
			b.WriteByte('<')

			for i, a := range args {
				if i > 0 {
					b.WriteString(", ")
				}

				b.WriteString(a.String())
			}

			b.WriteByte('>')
		}
	}

	return b.String()
}

// Named returns the head name of the underlying path, ignoring
// references: the type `&'static str` is named "str".
func (t *TypeRef) Named() string {
	if t.Path == nil || len(t.Path.Segments) == 0 {
		return ""
	}

	return t.Path.Segments[len(t.Path.Segments)-1].Name
}

// ----------------------------------------------------------------------------
// Items
// ----------------------------------------------------------------------------

// Fn is a function declaration or trait method. Body is nil for
// bodiless trait method signatures.
type Fn struct {
	spanned

	Doc    []string
	Attrs  []*Attr
	Pub    bool
	Name   *Ident
	Params []*Param
	Ret    *TypeRef
	Body   *Block
}

// Param is a single function parameter; IsSelf marks self receivers.
type Param struct {
	spanned

	IsSelf   bool
	RefSelf  bool
	MutSelf  bool
	Pat      Pat
	Type     *TypeRef
	Nameless bool
}

// Struct is a struct declaration. Unit structs have no fields.
type Struct struct {
	spanned

	Doc    []string
	Attrs  []*Attr
	Pub    bool
	Name   *Ident
	Unit   bool
	Tuple  []*TypeRef
	Fields []*Field
}

// Field is a named struct field.
type Field struct {
	spanned

	Doc  []string
	Pub  bool
	Name *Ident
	Type *TypeRef
}

// Enum is an enum declaration.
type Enum struct {
	spanned

	Doc      []string
	Attrs    []*Attr
	Pub      bool
	Name     *Ident
	Variants []*Variant
}

// Variant is one enum variant, optionally with tuple or record fields.
type Variant struct {
	spanned

	Doc    []string
	Name   *Ident
	Tuple  []*TypeRef
	Fields []*Field
}

// Trait is a trait declaration; members are method signatures, possibly
// with default bodies.
type Trait struct {
	spanned

	Doc     []string
	Attrs   []*Attr
	Pub     bool
	Name    *Ident
	Members []*Fn
}

// Impl is an impl block. TraitPath is nil for inherent impls.
type Impl struct {
	spanned

	Attrs     []*Attr
	TraitPath *Path
	SelfType  *TypeRef
	Members   []*Fn
	// Broken holds unparseable member-position fragments; completion
	// classifies placeholder tokens through them.
	Broken []*BrokenItem
}

// Use is a use declaration.
type Use struct {
	spanned

	Pub   bool
	Path  *Path
	Alias string
	Glob  bool
}

// Mod is a module declaration; Items is nil for file-backed `mod x;`.
type Mod struct {
	spanned

	Doc    []string
	Pub    bool
	Name   *Ident
	Inline bool
	Items  []Item
}

// Const is a const or static item.
type Const struct {
	spanned

	Doc    []string
	Pub    bool
	Static bool
	Name   *Ident
	Type   *TypeRef
	Value  Expr
}

// MacroDef is a macro_rules definition. Only the token body of each arm
// is retained; expansion re-lexes and re-parses it.
type MacroDef struct {
	spanned

	Doc  []string
	Name *Ident
	Arms []*MacroArm
}

// MacroArm is a single macro_rules arm.
type MacroArm struct {
	spanned

	// ParamText is the raw matcher between the arm's parentheses.
	ParamText string
	// BodyText is the raw token text between the arm's braces.
	BodyText string
}

// MacroCall is a macro invocation, usable in item or expression position.
type MacroCall struct {
	spanned

	Path     *Path
	BodyText string
}

// BrokenItem is an unparseable fragment in item position. The tolerant
// parser records the tokens it skipped so position classification can
// still see them.
type BrokenItem struct {
	spanned

	Attrs  []*Attr
	Tokens []lexer.Token
}

func (*Fn) itemNode()         {}
func (*Struct) itemNode()     {}
func (*Enum) itemNode()       {}
func (*Trait) itemNode()      {}
func (*Impl) itemNode()       {}
func (*Use) itemNode()        {}
func (*Mod) itemNode()        {}
func (*Const) itemNode()      {}
func (*MacroDef) itemNode()   {}
func (*MacroCall) itemNode()  {}
func (*BrokenItem) itemNode() {}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Block is a brace-delimited sequence of statements. The final
// expression, if any, is the last ExprStmt without a semicolon.
type Block struct {
	spanned

	Stmts []Stmt
}

// LetStmt is a let binding with optional type ascription and initializer.
type LetStmt struct {
	spanned

	Pat  Pat
	Type *TypeRef
	Init Expr
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	spanned

	X    Expr
	Semi bool
}

// ItemStmt is an item nested inside a block.
type ItemStmt struct {
	spanned

	Item Item
}

func (*LetStmt) stmtNode()  {}
func (*ExprStmt) stmtNode() {}
func (*ItemStmt) stmtNode() {}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// PathExpr is a path used as an expression.
type PathExpr struct {
	spanned

	Path *Path
}

// Lit is a literal expression.
type Lit struct {
	spanned

	Kind lexer.TokenType
	Text string
}

// CallExpr is a call: fun(args).
type CallExpr struct {
	spanned

	Fun  Expr
	Args []Expr
}

// MethodCallExpr is recv.name(args).
type MethodCallExpr struct {
	spanned

	Recv Expr
	Name *Ident
	Args []Expr
}

// FieldExpr is recv.name without a call.
type FieldExpr struct {
	spanned

	Recv Expr
	Name *Ident
}

// RecordExpr is a struct literal: Path { field: expr, .. }.
type RecordExpr struct {
	spanned

	Path   *Path
	Fields []*RecordExprField
	Spread Expr
}

// RecordExprField is one field initializer in a struct literal.
// Shorthand initializers have a nil Value.
type RecordExprField struct {
	spanned

	Name  *Ident
	Value Expr
}

// IfExpr is an if, with optional else (either a Block or another IfExpr).
type IfExpr struct {
	spanned

	Cond Expr
	Then *Block
	Else Expr
}

// WhileExpr is a while loop.
type WhileExpr struct {
	spanned

	Cond Expr
	Body *Block
}

// LoopExpr is an unconditional loop.
type LoopExpr struct {
	spanned

	Body *Block
}

// ForExpr is a for-in loop.
type ForExpr struct {
	spanned

	Pat  Pat
	Iter Expr
	Body *Block
}

// MatchExpr is a match with its arms.
type MatchExpr struct {
	spanned

	Scrutinee Expr
	Arms      []*MatchArm
}

// MatchArm is one arm of a match.
type MatchArm struct {
	spanned

	Pat   Pat
	Guard Expr
	Value Expr
}

// ReturnExpr is a return, with optional value.
type ReturnExpr struct {
	spanned

	X Expr
}

// RefExpr is &expr or &mut expr.
type RefExpr struct {
	spanned

	Mut bool
	X   Expr
}

// UnaryExpr is a prefix operator expression.
type UnaryExpr struct {
	spanned

	Op string
	X  Expr
}

// BinExpr is a binary operator expression. Operator precedence is flat:
// completion only needs spans and operands, not evaluation order.
type BinExpr struct {
	spanned

	Op string
	X  Expr
	Y  Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	spanned

	X Expr
}

// BlockExpr is a block used in expression position.
type BlockExpr struct {
	spanned

	Block *Block
}

// MacroExpr is a macro invocation in expression position.
type MacroExpr struct {
	spanned

	Call *MacroCall
}

func (*PathExpr) exprNode()       {}
func (*Lit) exprNode()            {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*FieldExpr) exprNode()      {}
func (*RecordExpr) exprNode()     {}
func (*IfExpr) exprNode()         {}
func (*WhileExpr) exprNode()      {}
func (*LoopExpr) exprNode()       {}
func (*ForExpr) exprNode()        {}
func (*MatchExpr) exprNode()      {}
func (*ReturnExpr) exprNode()     {}
func (*RefExpr) exprNode()        {}
func (*UnaryExpr) exprNode()      {}
func (*BinExpr) exprNode()        {}
func (*ParenExpr) exprNode()      {}
func (*BlockExpr) exprNode()      {}
func (*MacroExpr) exprNode()      {}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

// BindPat binds a name, optionally by ref/mut.
type BindPat struct {
	spanned

	Ref  bool
	Mut  bool
	Name *Ident
}

// WildcardPat is the _ pattern.
type WildcardPat struct {
	spanned
}

// PathPat is a path pattern (unit variants, consts).
type PathPat struct {
	spanned

	Path *Path
}

// TuplePat is a tuple or tuple-variant pattern: Path(a, b) or (a, b).
type TuplePat struct {
	spanned

	Path  *Path
	Elems []Pat
}

// RecordPat is a struct pattern: Path { field, .. }.
type RecordPat struct {
	spanned

	Path   *Path
	Fields []*RecordPatField
	Rest   bool
}

// RecordPatField is one field of a struct pattern.
type RecordPatField struct {
	spanned

	Name *Ident
	Pat  Pat
}

// LitPat is a literal pattern.
type LitPat struct {
	spanned

	Text string
}

func (*BindPat) patNode()     {}
func (*WildcardPat) patNode() {}
func (*PathPat) patNode()     {}
func (*TuplePat) patNode()    {}
func (*RecordPat) patNode()   {}
func (*LitPat) patNode()      {}
