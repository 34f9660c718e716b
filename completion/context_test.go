package completion_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/completion"
)

const caret = "<|>"

// buildContext analyzes src with the caret marker removed and builds a
// completion context at the marker's offset.
func buildContext(t *testing.T, src string) (*completion.Context, error) {
	t.Helper()

	offset := strings.Index(src, caret)
	require.GreaterOrEqual(t, offset, 0, "missing %s marker", caret)

	src = strings.Replace(src, caret, "", 1)

	snap := analysis.NewSnapshot(nil)
	f := snap.SetFile("test.rs", []byte(src))

	return completion.BuildContext(snap, f, offset, completion.DefaultConfig())
}

func mustContext(t *testing.T, src string) *completion.Context {
	t.Helper()

	ctx, err := buildContext(t, src)
	require.NoError(t, err)

	return ctx
}

func TestBuildContext_Tags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want completion.Tag
	}{
		{
			name: "expression statement",
			src:  "fn main() {\n    fo<|>\n}",
			want: completion.TagExpr,
		},
		{
			name: "empty expression position",
			src:  "fn main() {\n    <|>\n}",
			want: completion.TagExpr,
		},
		{
			name: "call argument",
			src:  "fn main() {\n    foo(ba<|>)\n}",
			want: completion.TagExpr,
		},
		{
			name: "let initializer",
			src:  "fn main() {\n    let x = va<|>;\n}",
			want: completion.TagExpr,
		},
		{
			name: "type ascription",
			src:  "fn main() {\n    let x: St<|> = 1;\n}",
			want: completion.TagType,
		},
		{
			name: "return type",
			src:  "fn f() -> Op<|> {}",
			want: completion.TagType,
		},
		{
			name: "param type",
			src:  "fn f(x: i3<|>) {}",
			want: completion.TagType,
		},
		{
			name: "match arm pattern",
			src:  "fn main() {\n    match x {\n        So<|> => {}\n    }\n}",
			want: completion.TagPattern,
		},
		{
			name: "top level",
			src:  "fn existing() {}\n\n<|>",
			want: completion.TagItem,
		},
		{
			name: "partial item keyword",
			src:  "stru<|>",
			want: completion.TagItem,
		},
		{
			name: "attribute name",
			src:  "#[der<|>]\nstruct S;",
			want: completion.TagAttribute,
		},
		{
			name: "use tree",
			src:  "use cra<|>",
			want: completion.TagUseTree,
		},
		{
			name: "record literal field",
			src:  "struct P { x: i32 }\n\nfn main() {\n    let p = P { x<|> };\n}",
			want: completion.TagRecordField,
		},
		{
			name: "record pattern field",
			src:  "struct P { x: i32 }\n\nfn main() {\n    match p {\n        P { x<|> } => {}\n    }\n}",
			want: completion.TagRecordPattern,
		},
		{
			name: "impl member position",
			src:  "trait T { fn f(&self); }\nstruct S;\n\nimpl T for S {\n    <|>\n}",
			want: completion.TagTraitImpl,
		},
		{
			name: "mod declaration name",
			src:  "mod <|>",
			want: completion.TagMod,
		},
		{
			name: "fn param name",
			src:  "fn f(pa<|>) {}",
			want: completion.TagParam,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := mustContext(t, tt.src)
			assert.Equal(t, tt.want, ctx.Tag, "tag = %s, want %s", ctx.Tag, tt.want)
		})
	}
}

func TestBuildContext_Dot(t *testing.T) {
	t.Parallel()

	ctx := mustContext(t, `
struct Point { x: i32 }

fn main() {
    let p = Point { x: 1 };
    p.<|>
}
`)

	assert.Equal(t, completion.TagExpr, ctx.Tag)
	require.True(t, ctx.IsDot())
	require.True(t, ctx.DotRecvTyped)
	assert.Equal(t, "Point", ctx.DotRecvType.Name)
}

func TestBuildContext_DotWithPartialName(t *testing.T) {
	t.Parallel()

	marked := `
fn main() {
    let s = "x".to_string();
    s.le<|>
}
`

	ctx := mustContext(t, marked)

	require.True(t, ctx.IsDot())
	assert.Equal(t, "le", ctx.Typed)
	require.True(t, ctx.DotRecvTyped)
	assert.Equal(t, "String", ctx.DotRecvType.Name)

	// The dot range starts at the receiver, for postfix replacement.
	src := strings.Replace(marked, caret, "", 1)
	assert.Equal(t, strings.Index(src, "s.le"), ctx.DotRange.Start.Offset)
}

func TestBuildContext_Qualifier(t *testing.T) {
	t.Parallel()

	ctx := mustContext(t, `
enum Dir { North, South }

fn main() {
    Dir::<|>
}
`)

	assert.Equal(t, completion.TagExpr, ctx.Tag)
	require.NotNil(t, ctx.Qualifier)
	assert.Equal(t, "Dir", ctx.Qualifier.String())
}

func TestBuildContext_Typed(t *testing.T) {
	t.Parallel()

	ctx := mustContext(t, "fn main() {\n    fo<|>\n}")

	assert.Equal(t, "fo", ctx.Typed)
	assert.Equal(t, ctx.TypedRange.End.Offset-ctx.TypedRange.Start.Offset, len("fo"))
}

func TestBuildContext_NoCompletionPositions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"string interior", "fn main() {\n    let s = \"he<|>llo\";\n}"},
		{"comment interior", "fn main() {\n    // com<|>ment\n}"},
		{"block comment interior", "fn main() {\n    /* com<|>ment */\n}"},
		{"number interior", "fn main() {\n    let n = 1_0<|>00;\n}"},
		{"for binding", "fn main() {\n    for i<|> {}\n}"},
		{"for binding after space", "fn main() {\n    for i i<|>\n}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := buildContext(t, tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, completion.ErrNoCompletion),
				"got %v, want ErrNoCompletion", err)
		})
	}
}

func TestBuildContext_EnclosingLoop(t *testing.T) {
	t.Parallel()

	ctx := mustContext(t, "fn main() {\n    loop {\n        <|>\n    }\n}")
	assert.True(t, ctx.InLoop)

	ctx = mustContext(t, "fn main() {\n    <|>\n}")
	assert.False(t, ctx.InLoop)
}

func TestBuildContext_OffsetOutOfRange(t *testing.T) {
	t.Parallel()

	snap := analysis.NewSnapshot(nil)
	f := snap.SetFile("test.rs", []byte("fn main() {}"))

	_, err := completion.BuildContext(snap, f, 999, completion.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, completion.ErrNoContext))
}
