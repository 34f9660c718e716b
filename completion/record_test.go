package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/completion"
)

func TestRecord_LiteralMissingFields(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct Config {
    host: String,
    port: u16,
    debug: bool,
}

fn main() {
    let c = Config { host: h, <|> };
}
`)

	assertHasLabels(t, items, "port", "debug")
	assertLacksLabels(t, items, "host")

	port, ok := findItem(items, "port")
	require.True(t, ok)
	assert.Equal(t, completion.KindField, port.Kind)
	assert.Equal(t, "u16", port.Detail)
	assert.Equal(t, "port: $0", port.InsertText)
	assert.Equal(t, completion.SnippetText, port.InsertFormat)
}

func TestRecord_LiteralPlainWithoutSnippets(t *testing.T) {
	t.Parallel()

	cfg := completion.DefaultConfig()
	cfg.EnableSnippets = false

	items := completeWith(t, `
struct Config {
    host: String,
}

fn main() {
    let c = Config { <|> };
}
`, cfg)

	host, ok := findItem(items, "host")
	require.True(t, ok)
	assert.Equal(t, "host", host.Text())
}

func TestRecord_PatternMissingFields(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct Config {
    host: String,
    port: u16,
}

fn main() {
    match c {
        Config { host: h, <|> } => {}
    }
}
`)

	assertHasLabels(t, items, "port")
	assertLacksLabels(t, items, "host")

	// Pattern fields never get the literal's `name: value` snippet.
	port, ok := findItem(items, "port")
	require.True(t, ok)
	assert.Equal(t, "port", port.Text())
}
