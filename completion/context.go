package completion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/syntax"
)

// placeholder is the identifier spliced into the source at the cursor
// before reparsing. It merges with a partially typed identifier, so the
// speculative tree contains a well-formed name node exactly where the
// cursor is and classification can read the slot off the tree.
const placeholder = "raPlaceholder"

var (
	// ErrNoContext reports that no completion context could be built at
	// the offset. Callers surface it as an empty result.
	ErrNoContext = errors.New("no completion context at offset")
	// ErrNoCompletion reports a position where completions are known to
	// be unwanted (string, comment and number interiors, a for-loop
	// binding).
	ErrNoCompletion = errors.New("completion not applicable at offset")
)

// Tag is the mutually exclusive classification of the cursor slot.
type Tag int

const (
	TagNone Tag = iota
	TagExpr
	TagType
	TagPattern
	TagItem
	TagAttribute
	TagUseTree
	TagRecordField
	TagRecordPattern
	TagTraitImpl
	TagMod
	TagParam
)

func (t Tag) String() string {
	switch t {
	case TagExpr:
		return "expr"
	case TagType:
		return "type"
	case TagPattern:
		return "pattern"
	case TagItem:
		return "item"
	case TagAttribute:
		return "attribute"
	case TagUseTree:
		return "use-tree"
	case TagRecordField:
		return "record-field"
	case TagRecordPattern:
		return "record-pattern"
	case TagTraitImpl:
		return "trait-impl"
	case TagMod:
		return "mod"
	case TagParam:
		return "param"
	default:
		return "none"
	}
}

// Context is everything the strategies know about the cursor position.
type Context struct {
	Snapshot *analysis.Snapshot
	File     *analysis.AnalyzedFile
	Config   Config

	Source string
	Offset int

	// Speculative reparse with the placeholder spliced in.
	SpecSource string
	SpecFile   *syntax.File
	SpecTokens []lexer.Token

	// Typed is the partial identifier the cursor sits in, possibly
	// empty. TypedRange is its source range, the default replacement
	// range for items.
	Typed      string
	TypedRange syntax.Span

	Tag Tag

	// Qualifier is the path prefix before the cursor segment, nil for
	// unqualified positions. Valid for expr, type, pattern and use-tree
	// tags.
	Qualifier *syntax.Path

	// Dot position (field access or method call receiver).
	DotRecv      syntax.Expr
	DotRecvType  analysis.Type
	DotRecvTyped bool
	// DotRange spans the receiver through the typed suffix, the
	// replacement range for postfix items.
	DotRange     syntax.Span
	IsMethodCall bool

	// Record literal / pattern whose field list holds the cursor.
	RecordLit *syntax.RecordExpr
	RecordPat *syntax.RecordPat

	// Attribute holding the cursor.
	Attr *syntax.Attr

	EnclosingFn   *syntax.Fn
	EnclosingImpl *syntax.Impl
	InLoop        bool

	ancestors []syntax.Node
	tokenIdx  int
}

// BuildContext classifies the cursor position. It returns ErrNoContext
// when the offset cannot be classified and ErrNoCompletion when the
// position is one where completion must stay silent.
func BuildContext(snap *analysis.Snapshot, file *analysis.AnalyzedFile, offset int, cfg Config) (*Context, error) {
	if file == nil {
		return nil, ErrNoContext
	}

	src := file.Source
	if offset < 0 || offset > len(src) {
		return nil, fmt.Errorf("%w: offset %d outside source of length %d", ErrNoContext, offset, len(src))
	}

	if inOpaqueToken(syntax.Lex(file.Path, src), offset) {
		return nil, ErrNoCompletion
	}

	specSrc := src[:offset] + placeholder + src[offset:]
	specToks := syntax.Lex(file.Path, specSrc)

	idx := placeholderToken(specToks, offset)
	if idx < 0 {
		return nil, ErrNoContext
	}

	ctx := &Context{
		Snapshot:   snap,
		File:       file,
		Config:     cfg,
		Source:     src,
		Offset:     offset,
		SpecSource: specSrc,
		SpecTokens: specToks,
		tokenIdx:   idx,
	}

	if forBindingPosition(specToks, idx) {
		return nil, ErrNoCompletion
	}

	tok := specToks[idx]
	ctx.Typed = strings.Replace(tok.Value, placeholder, "", 1)
	ctx.TypedRange = syntax.Span{
		Start: tok.Pos,
		End:   ctx.PositionAt(tok.Pos.Offset + len(ctx.Typed)),
	}

	specFile, _ := syntax.Parse(file.Path, specSrc)
	if specFile == nil {
		return nil, ErrNoContext
	}

	ctx.SpecFile = specFile

	mid := tok.Pos.Offset + len(tok.Value)/2
	ctx.ancestors = syntax.AncestorsAt(specFile, mid)

	ctx.classify(mid)
	ctx.surroundings()

	if ctx.Tag == TagNone && len(ctx.ancestors) <= 1 {
		return nil, ErrNoContext
	}

	return ctx, nil
}

// PositionAt computes the position of a byte offset in the original
// source. The offset must be at or before the cursor, where original
// and speculative coordinates agree.
func (ctx *Context) PositionAt(offset int) lexer.Position {
	pos := lexer.Position{Filename: ctx.File.Path, Line: 1, Column: 1, Offset: offset}

	for _, r := range ctx.Source[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}

// inOpaqueToken reports whether the offset is inside a string, char or
// comment, where completion stays silent.
func inOpaqueToken(tokens []lexer.Token, offset int) bool {
	for _, tok := range tokens {
		start := tok.Pos.Offset
		end := start + len(tok.Value)

		switch tok.Type {
		case syntax.TokenString, syntax.TokenChar, syntax.TokenNumber:
			if offset > start && offset < end {
				return true
			}
		case syntax.TokenComment, syntax.TokenDocComment:
			// A line comment swallows the cursor up to the newline.
			if offset > start && offset <= end {
				return true
			}
		}

		if start > offset {
			return false
		}
	}

	return false
}

// placeholderToken finds the speculative token the placeholder landed
// in. Normally that is the token at the cursor, but a preceding partial
// identifier shifts the token start left of the cursor.
func placeholderToken(tokens []lexer.Token, offset int) int {
	for i, tok := range tokens {
		start := tok.Pos.Offset
		if start > offset {
			break
		}

		if offset >= start && offset <= start+len(tok.Value) &&
			strings.Contains(tok.Value, placeholder) {
			return i
		}
	}

	return -1
}

// classify walks the ancestor chain innermost-first and derives the
// position tag plus its per-tag payload.
//
//nolint:gocyclo // One arm per enclosing node kind.
func (ctx *Context) classify(mid int) {
	for i := len(ctx.ancestors) - 1; i >= 0; i-- {
		switch n := ctx.ancestors[i].(type) {
		case *syntax.Attr:
			ctx.Tag = TagAttribute
			ctx.Attr = n

			return

		case *syntax.FieldExpr:
			if n.Name != nil && n.Name.Span().Contains(mid) {
				ctx.dotContext(n.Recv, false)

				return
			}

		case *syntax.MethodCallExpr:
			if n.Name != nil && n.Name.Span().Contains(mid) {
				ctx.dotContext(n.Recv, true)

				return
			}

		case *syntax.RecordExpr:
			if field := recordFieldAt(n, mid); field != nil {
				ctx.Tag = TagRecordField
				ctx.RecordLit = n

				return
			}

		case *syntax.RecordPat:
			if recordPatFieldAt(n, mid) {
				ctx.Tag = TagRecordPattern
				ctx.RecordPat = n

				return
			}

		case *syntax.PathExpr:
			ctx.Tag = TagExpr
			ctx.Qualifier = qualifierBefore(n.Path, mid)

			return

		case *syntax.PathPat:
			ctx.Tag = TagPattern
			ctx.Qualifier = qualifierBefore(n.Path, mid)

			return

		case *syntax.BindPat:
			if _, ok := outerParam(ctx.ancestors, i); ok {
				ctx.Tag = TagParam
			} else {
				ctx.Tag = TagPattern
			}

			return

		case *syntax.TypeRef:
			ctx.Tag = TagType
			ctx.Qualifier = qualifierBefore(n.Path, mid)

			return

		case *syntax.Use:
			ctx.Tag = TagUseTree
			ctx.Qualifier = qualifierBefore(n.Path, mid)

			return

		case *syntax.Mod:
			if n.Name != nil && n.Name.Span().Contains(mid) {
				ctx.Tag = TagMod

				return
			}

		case *syntax.BrokenItem:
			if !brokenContains(n, mid) {
				continue
			}

			if impl := enclosingImpl(ctx.ancestors, i); impl != nil {
				ctx.Tag = TagTraitImpl
				ctx.EnclosingImpl = impl
			} else {
				ctx.Tag = TagItem
			}

			return

		case *syntax.Fn, *syntax.Struct, *syntax.Enum, *syntax.Trait,
			*syntax.Const, *syntax.MacroDef:
			// The placeholder became the item's own name; a fresh name
			// has nothing to complete.
			if itemNameContains(ctx.ancestors[i], mid) {
				ctx.Tag = TagNone

				return
			}
		}
	}
}

// dotContext fills in the receiver payload of a dot position.
func (ctx *Context) dotContext(recv syntax.Expr, methodCall bool) {
	ctx.Tag = TagExpr
	ctx.DotRecv = recv
	ctx.IsMethodCall = methodCall

	if recv != nil {
		ctx.DotRecvType, ctx.DotRecvTyped = ctx.Snapshot.InferExpr(ctx.File, recv)
		ctx.DotRange = syntax.Span{Start: recv.Span().Start, End: ctx.TypedRange.End}
	}
}

// IsDot reports whether the cursor completes a member after a dot.
func (ctx *Context) IsDot() bool { return ctx.DotRecv != nil }

// surroundings records the enclosing function, impl and loop, which
// keyword and trait-impl strategies consult.
func (ctx *Context) surroundings() {
	for _, anc := range ctx.ancestors {
		switch n := anc.(type) {
		case *syntax.Fn:
			ctx.EnclosingFn = n
		case *syntax.Impl:
			ctx.EnclosingImpl = n
		case *syntax.ForExpr:
			if n.Body != nil && n.Body.Span().Contains(ctx.Offset) {
				ctx.InLoop = true
			}
		case *syntax.WhileExpr:
			if n.Body != nil && n.Body.Span().Contains(ctx.Offset) {
				ctx.InLoop = true
			}
		case *syntax.LoopExpr:
			if n.Body != nil && n.Body.Span().Contains(ctx.Offset) {
				ctx.InLoop = true
			}
		}
	}
}

// PrevStmtIsIf reports whether the statement before the cursor's
// statement is an if expression, which makes `else` applicable.
func (ctx *Context) PrevStmtIsIf() bool {
	for i := len(ctx.ancestors) - 1; i >= 0; i-- {
		block, ok := ctx.ancestors[i].(*syntax.Block)
		if !ok {
			continue
		}

		var prev syntax.Stmt

		for _, stmt := range block.Stmts {
			if stmt.Span().Contains(ctx.Offset) && stmt.Span().Start.Offset <= ctx.Offset {
				break
			}

			if stmt.Span().End.Offset <= ctx.Offset {
				prev = stmt
			}
		}

		es, ok := prev.(*syntax.ExprStmt)
		if !ok {
			return false
		}

		_, isIf := es.X.(*syntax.IfExpr)

		return isIf
	}

	return false
}

func qualifierBefore(path *syntax.Path, mid int) *syntax.Path {
	if path == nil {
		return nil
	}

	for i, seg := range path.Segments {
		if seg.Span().Contains(mid) {
			if i == 0 {
				return nil
			}

			q := &syntax.Path{Segments: path.Segments[:i]}

			return q
		}
	}

	return path.Qualifier()
}

func recordFieldAt(rec *syntax.RecordExpr, mid int) *syntax.RecordExprField {
	for _, field := range rec.Fields {
		if field.Name != nil && field.Name.Span().Contains(mid) && field.Value == nil {
			return field
		}
	}

	return nil
}

func recordPatFieldAt(pat *syntax.RecordPat, mid int) bool {
	for _, field := range pat.Fields {
		if field.Name != nil && field.Name.Span().Contains(mid) && field.Pat == nil {
			return true
		}

		if bind, ok := field.Pat.(*syntax.BindPat); ok &&
			bind.Name != nil && bind.Name.Span().Contains(mid) {
			return true
		}
	}

	return false
}

func brokenContains(broken *syntax.BrokenItem, mid int) bool {
	for _, tok := range broken.Tokens {
		start := tok.Pos.Offset
		if mid >= start && mid <= start+len(tok.Value) {
			return true
		}
	}

	return false
}

func enclosingImpl(ancestors []syntax.Node, from int) *syntax.Impl {
	for i := from - 1; i >= 0; i-- {
		if impl, ok := ancestors[i].(*syntax.Impl); ok {
			return impl
		}
	}

	return nil
}

func outerParam(ancestors []syntax.Node, from int) (*syntax.Param, bool) {
	for i := from - 1; i >= 0; i-- {
		switch n := ancestors[i].(type) {
		case *syntax.Param:
			return n, true
		case *syntax.Block, *syntax.LetStmt, *syntax.MatchArm, *syntax.ForExpr:
			return nil, false
		}
	}

	return nil, false
}

func itemNameContains(n syntax.Node, mid int) bool {
	var name *syntax.Ident

	switch n := n.(type) {
	case *syntax.Fn:
		name = n.Name
	case *syntax.Struct:
		name = n.Name
	case *syntax.Enum:
		name = n.Name
	case *syntax.Trait:
		name = n.Name
	case *syntax.Const:
		name = n.Name
	case *syntax.MacroDef:
		name = n.Name
	}

	return name != nil && name.Span().Contains(mid)
}
