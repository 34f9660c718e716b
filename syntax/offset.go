package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// AncestorsAt returns the chain of nodes containing the byte offset,
// outermost first. The innermost node is the last element. Returns nil
// when the offset is outside the file.
func AncestorsAt(file *File, offset int) []Node {
	if file == nil || !file.Span().Contains(offset) {
		return nil
	}

	chain := []Node{file}
	cur := Node(file)

	for {
		var next Node

		for _, child := range Children(cur) {
			if child.Span().Contains(offset) {
				// Prefer the later child when spans touch: the node
				// ending exactly at the cursor is less specific than
				// the one starting there.
				next = child
			}
		}

		if next == nil {
			return chain
		}

		chain = append(chain, next)
		cur = next
	}
}

// TokenAt returns the index of the token covering the byte offset.
// A cursor sitting immediately after an identifier or keyword counts as
// inside it (left-biased), which is what completion wants for `fo<caret>`.
// Returns -1 when no token matches.
func TokenAt(tokens []lexer.Token, offset int) int {
	for i, tok := range tokens {
		start := tok.Pos.Offset
		end := start + len(tok.Value)

		switch {
		case offset > start && offset < end:
			return i
		case offset == end:
			if tok.Type == TokenIdent || IsKeywordToken(tok.Type) || tok.Type == TokenNumber {
				return i
			}
		case offset == start && i == 0:
			return i
		}
	}

	// Fall back to the token starting at the offset.
	for i, tok := range tokens {
		if tok.Pos.Offset == offset {
			return i
		}
	}

	return -1
}

// PrevNonTrivia returns the index of the closest non-trivia token
// strictly before index i, or -1.
func PrevNonTrivia(tokens []lexer.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if !IsTrivia(tokens[j].Type) && tokens[j].Type != TokenDocComment {
			return j
		}
	}

	return -1
}

// Children returns the direct child nodes of n in source order.
//
//nolint:funlen,gocyclo // One arm per node type.
func Children(n Node) []Node {
	var out []Node

	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *File:
		for _, it := range n.Items {
			add(it)
		}
	case *Fn:
		for _, a := range n.Attrs {
			add(a)
		}

		add(n.Name)

		for _, prm := range n.Params {
			add(prm)
		}

		add(n.Ret, n.Body)
	case *Param:
		add(n.Pat, n.Type)
	case *Struct:
		for _, a := range n.Attrs {
			add(a)
		}

		add(n.Name)

		for _, t := range n.Tuple {
			add(t)
		}

		for _, f := range n.Fields {
			add(f)
		}
	case *Field:
		add(n.Name, n.Type)
	case *Enum:
		for _, a := range n.Attrs {
			add(a)
		}

		add(n.Name)

		for _, v := range n.Variants {
			add(v)
		}
	case *Variant:
		add(n.Name)

		for _, t := range n.Tuple {
			add(t)
		}

		for _, f := range n.Fields {
			add(f)
		}
	case *Trait:
		add(n.Name)

		for _, m := range n.Members {
			add(m)
		}
	case *Impl:
		for _, a := range n.Attrs {
			add(a)
		}

		add(n.TraitPath, n.SelfType)

		for _, m := range n.Members {
			add(m)
		}

		for _, b := range n.Broken {
			add(b)
		}
	case *Use:
		add(n.Path)
	case *Mod:
		add(n.Name)

		for _, it := range n.Items {
			add(it)
		}
	case *Const:
		add(n.Name, n.Type, n.Value)
	case *MacroDef:
		add(n.Name)
	case *MacroCall:
		add(n.Path)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *LetStmt:
		add(n.Pat, n.Type, n.Init)
	case *ExprStmt:
		add(n.X)
	case *ItemStmt:
		add(n.Item)
	case *PathExpr:
		add(n.Path)
	case *Path:
		for _, seg := range n.Segments {
			add(seg)
		}
	case *PathSegment:
		for _, a := range n.Args {
			add(a)
		}
	case *TypeRef:
		add(n.Path)
	case *CallExpr:
		add(n.Fun)

		for _, a := range n.Args {
			add(a)
		}
	case *MethodCallExpr:
		add(n.Recv, n.Name)

		for _, a := range n.Args {
			add(a)
		}
	case *FieldExpr:
		add(n.Recv, n.Name)
	case *RecordExpr:
		add(n.Path)

		for _, f := range n.Fields {
			add(f)
		}

		add(n.Spread)
	case *RecordExprField:
		add(n.Name, n.Value)
	case *IfExpr:
		add(n.Cond, n.Then, n.Else)
	case *WhileExpr:
		add(n.Cond, n.Body)
	case *LoopExpr:
		add(n.Body)
	case *ForExpr:
		add(n.Pat, n.Iter, n.Body)
	case *MatchExpr:
		add(n.Scrutinee)

		for _, arm := range n.Arms {
			add(arm)
		}
	case *MatchArm:
		add(n.Pat, n.Guard, n.Value)
	case *ReturnExpr:
		add(n.X)
	case *RefExpr:
		add(n.X)
	case *UnaryExpr:
		add(n.X)
	case *BinExpr:
		add(n.X, n.Y)
	case *ParenExpr:
		add(n.X)
	case *BlockExpr:
		add(n.Block)
	case *MacroExpr:
		add(n.Call)
	case *BindPat:
		add(n.Name)
	case *PathPat:
		add(n.Path)
	case *TuplePat:
		add(n.Path)

		for _, e := range n.Elems {
			add(e)
		}
	case *RecordPat:
		add(n.Path)

		for _, f := range n.Fields {
			add(f)
		}
	case *RecordPatField:
		add(n.Name, n.Pat)
	case *BrokenItem:
		for _, a := range n.Attrs {
			add(a)
		}
	}

	return out
}

// isNilNode guards against typed-nil interface values from optional
// AST fields.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Ident:
		return v == nil
	case *Path:
		return v == nil
	case *TypeRef:
		return v == nil
	case *Block:
		return v == nil
	case *Attr:
		return v == nil
	case *PathSegment:
		return v == nil
	default:
		return false
	}
}
