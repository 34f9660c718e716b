package analysis

import (
	"strconv"
	"strings"

	"github.com/nitsky/rust-analyzer/syntax"
)

// DocText combines doc comments and #[doc = "..."] attributes into the
// normalized documentation string for an item. Line-doc markers and a
// single leading space are stripped, so `/// Do the foo` and
// `#[doc = "Do the foo"]` both yield "Do the foo".
func DocText(doc []string, attrs []*syntax.Attr) string {
	var lines []string

	for _, raw := range doc {
		lines = append(lines, normalizeDocLine(raw))
	}

	for _, attr := range attrs {
		if attr.Name != "doc" {
			continue
		}

		if text, ok := docAttrValue(attr); ok {
			lines = append(lines, text)
		}
	}

	return strings.Join(lines, "\n")
}

func normalizeDocLine(raw string) string {
	for _, marker := range []string{"///", "//!"} {
		if strings.HasPrefix(raw, marker) {
			raw = strings.TrimPrefix(raw, marker)

			break
		}
	}

	return strings.TrimPrefix(raw, " ")
}

// docAttrValue extracts the string value of a #[doc = "..."] attribute.
func docAttrValue(attr *syntax.Attr) (string, bool) {
	seenEq := false

	for _, tok := range attr.Args {
		if tok.Type == syntax.TokenEq {
			seenEq = true

			continue
		}

		if tok.Type != syntax.TokenString || !seenEq {
			continue
		}

		if s, err := strconv.Unquote(tok.Value); err == nil {
			return s, true
		}

		return strings.Trim(tok.Value, `"`), true
	}

	return "", false
}

// Signature renders a function signature the way it reads in source:
// `fn foo(&self)`, `fn foo() -> &'static str`.
func Signature(fn *syntax.Fn) string {
	if fn == nil || fn.Name == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("fn ")
	b.WriteString(fn.Name.Name)
	b.WriteByte('(')

	for i, param := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(renderParam(param))
	}

	b.WriteByte(')')

	if fn.Ret != nil {
		b.WriteString(" -> ")
		b.WriteString(fn.Ret.String())
	}

	return b.String()
}

func renderParam(param *syntax.Param) string {
	if param.IsSelf {
		var b strings.Builder

		if param.RefSelf {
			b.WriteByte('&')
		}

		if param.MutSelf {
			b.WriteString("mut ")
		}

		b.WriteString("self")

		return b.String()
	}

	name := "_"
	if bind, ok := param.Pat.(*syntax.BindPat); ok && bind.Name != nil {
		name = bind.Name.Name
	}

	if param.Type == nil {
		return name
	}

	return name + ": " + param.Type.String()
}
