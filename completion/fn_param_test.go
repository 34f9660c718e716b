package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitsky/rust-analyzer/completion"
)

func TestFnParam_ReusesDeclarations(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
fn connect(host: &str, port: u16) {}

fn reconnect(ho<|>) {}
`)

	host, ok := findItem(items, "host: &str")
	require.True(t, ok)
	assert.Equal(t, completion.KindLocal, host.Kind)

	assertHasLabels(t, items, "port: u16")
}

func TestFnParam_ExcludesCurrentFn(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
fn solo(first: i32, <|>) {}
`)

	assertLacksLabels(t, items, "first: i32")
}

func TestFnParam_DedupAcrossFns(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
fn open(path: &str) {}

fn close(path: &str) {}

fn stat(<|>) {}
`)

	count := 0

	for _, label := range labels(items) {
		if label == "path: &str" {
			count++
		}
	}

	assert.Equal(t, 1, count)
}

func TestFnParam_SeesImplMethods(t *testing.T) {
	t.Parallel()

	items := completeAt(t, `
struct S;

impl S {
    fn set(&mut self, value: i32) {}
}

fn free(<|>) {}
`)

	assertHasLabels(t, items, "value: i32")
	assertLacksLabels(t, items, "self")
}
