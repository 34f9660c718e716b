package syntax_test

import (
	"testing"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/nitsky/rust-analyzer/syntax"
)

type tokenExpect struct {
	typ lexer.TokenType
	val string
}

// lexSignificant drops whitespace so tests read naturally.
func lexSignificant(input string) []tokenExpect {
	var out []tokenExpect

	for _, tok := range syntax.Lex("test.rs", input) {
		if tok.Type == syntax.TokenWhitespace {
			continue
		}

		out = append(out, tokenExpect{typ: tok.Type, val: tok.Value})
	}

	return out
}

func TestLex_Basic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []tokenExpect
	}{
		{
			name:  "function header",
			input: "fn main() {}",
			want: []tokenExpect{
				{syntax.TokenFn, "fn"},
				{syntax.TokenIdent, "main"},
				{syntax.TokenLParen, "("},
				{syntax.TokenRParen, ")"},
				{syntax.TokenLBrace, "{"},
				{syntax.TokenRBrace, "}"},
			},
		},
		{
			name:  "path separator vs colon",
			input: "a::b: c",
			want: []tokenExpect{
				{syntax.TokenIdent, "a"},
				{syntax.TokenPathSep, "::"},
				{syntax.TokenIdent, "b"},
				{syntax.TokenColon, ":"},
				{syntax.TokenIdent, "c"},
			},
		},
		{
			name:  "arrows",
			input: "-> =>",
			want: []tokenExpect{
				{syntax.TokenArrow, "->"},
				{syntax.TokenFatArrow, "=>"},
			},
		},
		{
			name:  "string and char",
			input: `"hi \" there" 'x'`,
			want: []tokenExpect{
				{syntax.TokenString, `"hi \" there"`},
				{syntax.TokenChar, "'x'"},
			},
		},
		{
			name:  "lifetime is not a char",
			input: "&'a str",
			want: []tokenExpect{
				{syntax.TokenAmp, "&"},
				{syntax.TokenLifetime, "'a"},
				{syntax.TokenIdent, "str"},
			},
		},
		{
			name:  "numbers",
			input: "0 42 3.25 0xff 1_000",
			want: []tokenExpect{
				{syntax.TokenNumber, "0"},
				{syntax.TokenNumber, "42"},
				{syntax.TokenNumber, "3.25"},
				{syntax.TokenNumber, "0xff"},
				{syntax.TokenNumber, "1_000"},
			},
		},
		{
			name:  "keywords vs idents",
			input: "for format in inner",
			want: []tokenExpect{
				{syntax.TokenFor, "for"},
				{syntax.TokenIdent, "format"},
				{syntax.TokenIn, "in"},
				{syntax.TokenIdent, "inner"},
			},
		},
		{
			name:  "method call chain",
			input: "x.len()",
			want: []tokenExpect{
				{syntax.TokenIdent, "x"},
				{syntax.TokenDot, "."},
				{syntax.TokenIdent, "len"},
				{syntax.TokenLParen, "("},
				{syntax.TokenRParen, ")"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := lexSignificant(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(got), len(tt.want), got)
			}

			for i, want := range tt.want {
				if got[i] != want {
					t.Errorf("token %d: got {%d %q}, want {%d %q}",
						i, got[i].typ, got[i].val, want.typ, want.val)
				}
			}
		})
	}
}

func TestLex_Comments(t *testing.T) {
	t.Parallel()

	toks := lexSignificant("// plain\n/// doc\n//! inner\n/* block /* nested */ */ x")

	want := []tokenExpect{
		{syntax.TokenComment, "// plain"},
		{syntax.TokenDocComment, "/// doc"},
		{syntax.TokenDocComment, "//! inner"},
		{syntax.TokenComment, "/* block /* nested */ */"},
		{syntax.TokenIdent, "x"},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}

	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, toks[i], want[i])
		}
	}
}

func TestLex_NeverStops(t *testing.T) {
	t.Parallel()

	// Broken input still yields tokens for everything before and after
	// the damage.
	inputs := []string{
		`let s = "unterminated`,
		"let c = 'x",
		"/* no close",
		"let ok = 1; \x01 let after = 2;",
	}

	for _, input := range inputs {
		toks := syntax.Lex("test.rs", input)
		if len(toks) == 0 {
			t.Errorf("Lex(%q) produced no tokens", input)
		}
	}
}

func TestLex_Offsets(t *testing.T) {
	t.Parallel()

	input := "fn f() {\n    1\n}"

	for _, tok := range syntax.Lex("test.rs", input) {
		end := tok.Pos.Offset + len(tok.Value)
		if end > len(input) {
			t.Fatalf("token %q overruns input: offset %d len %d", tok.Value, tok.Pos.Offset, len(tok.Value))
		}

		if input[tok.Pos.Offset:end] != tok.Value {
			t.Errorf("token %q does not match source slice %q", tok.Value, input[tok.Pos.Offset:end])
		}
	}
}
