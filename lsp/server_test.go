package lsp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/completion"
	"github.com/nitsky/rust-analyzer/lsp"
)

// mockClient implements protocol.Client for testing.
type mockClient struct {
	diagnostics []protocol.PublishDiagnosticsParams
}

func (m *mockClient) PublishDiagnostics(_ context.Context, params *protocol.PublishDiagnosticsParams) error {
	m.diagnostics = append(m.diagnostics, *params)

	return nil
}

// Stub out remaining Client interface methods.
func (m *mockClient) Progress(context.Context, *protocol.ProgressParams) error { return nil }
func (m *mockClient) WorkDoneProgressCreate(context.Context, *protocol.WorkDoneProgressCreateParams) error {
	return nil
}
func (m *mockClient) ShowMessage(context.Context, *protocol.ShowMessageParams) error { return nil }
func (m *mockClient) ShowMessageRequest(
	context.Context, *protocol.ShowMessageRequestParams,
) (*protocol.MessageActionItem, error) {
	return nil, nil //nolint:nilnil // Mock stub returns nil for tests
}
func (m *mockClient) LogMessage(context.Context, *protocol.LogMessageParams) error { return nil }
func (m *mockClient) Telemetry(context.Context, any) error                         { return nil }
func (m *mockClient) RegisterCapability(context.Context, *protocol.RegistrationParams) error {
	return nil
}
func (m *mockClient) UnregisterCapability(context.Context, *protocol.UnregistrationParams) error {
	return nil
}
func (m *mockClient) ApplyEdit(context.Context, *protocol.ApplyWorkspaceEditParams) (bool, error) {
	return false, nil
}
func (m *mockClient) Configuration(context.Context, *protocol.ConfigurationParams) ([]any, error) {
	return nil, nil
}
func (m *mockClient) WorkspaceFolders(context.Context) ([]protocol.WorkspaceFolder, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*lsp.Server, *mockClient) {
	t.Helper()

	logger := zap.NewNop()
	client := &mockClient{}
	server := lsp.NewServer(client, logger, completion.DefaultConfig())

	return server, client
}

// openDoc initializes the server and opens one document.
func openDoc(t *testing.T, server *lsp.Server, uri protocol.DocumentURI, text string) {
	t.Helper()

	ctx := context.Background()

	_, _ = server.Initialize(ctx, &protocol.InitializeParams{})
	_ = server.Initialized(ctx, &protocol.InitializedParams{})

	err := server.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:     uri,
			Version: 1,
			Text:    text,
		},
	})
	if err != nil {
		t.Fatalf("DidOpen() error: %v", err)
	}
}

// positionOf locates the first occurrence of needle in text.
func positionOf(t *testing.T, text, needle string) protocol.Position {
	t.Helper()

	offset := strings.Index(text, needle)
	if offset < 0 {
		t.Fatalf("needle %q not in text", needle)
	}

	before := text[:offset]
	line := strings.Count(before, "\n")
	col := offset - (strings.LastIndexByte(before, '\n') + 1)

	return protocol.Position{Line: uint32(line), Character: uint32(col)} //nolint:gosec // G115: test positions are small
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	result, err := server.Initialize(ctx, &protocol.InitializeParams{})
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	if result.Capabilities.TextDocumentSync == nil {
		t.Error("TextDocumentSync capability not set")
	}

	hoverEnabled, ok := result.Capabilities.HoverProvider.(bool)
	if !ok || !hoverEnabled {
		t.Error("HoverProvider not enabled")
	}

	if result.Capabilities.CompletionProvider == nil {
		t.Fatal("CompletionProvider not set")
	}

	if diff := cmp.Diff([]string{".", ":"}, result.Capabilities.CompletionProvider.TriggerCharacters); diff != "" {
		t.Errorf("TriggerCharacters mismatch (-want +got):\n%s", diff)
	}

	if result.ServerInfo == nil || result.ServerInfo.Name != "rust-analyzer-lsp" {
		t.Error("ServerInfo not set correctly")
	}
}

func TestServer_DidOpen_ValidFile(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)

	openDoc(t, server, "file:///test.rs", "fn main() {\n    let x = 1;\n}\n")

	if len(client.diagnostics) == 0 {
		t.Fatal("Expected diagnostics to be published")
	}

	diag := client.diagnostics[0]
	if len(diag.Diagnostics) != 0 {
		t.Errorf("Expected 0 diagnostics for valid file, got %d", len(diag.Diagnostics))
	}
}

func TestServer_DidOpen_ParseError(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)

	openDoc(t, server, "file:///test.rs", "fn main( {\n") // Broken parameter list.

	if len(client.diagnostics) == 0 {
		t.Fatal("Expected diagnostics to be published")
	}

	diag := client.diagnostics[0]
	if len(diag.Diagnostics) == 0 {
		t.Fatal("Expected parse error diagnostic")
	}

	d := diag.Diagnostics[0]
	if d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Expected error severity, got %v", d.Severity)
	}

	if d.Source != "rust-analyzer" {
		t.Errorf("Expected rust-analyzer source, got %q", d.Source)
	}
}

func TestServer_DidChange(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	ctx := context.Background()

	openDoc(t, server, "file:///test.rs", "fn main() {}\n")

	initialDiagCount := len(client.diagnostics)

	err := server.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{
				URI: "file:///test.rs",
			},
			Version: 2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{
			{Text: "fn main( {\n"}, // Broken parameter list.
		},
	})
	if err != nil {
		t.Fatalf("DidChange() error: %v", err)
	}

	if len(client.diagnostics) <= initialDiagCount {
		t.Fatal("Expected new diagnostics after change")
	}

	latestDiag := client.diagnostics[len(client.diagnostics)-1]
	if len(latestDiag.Diagnostics) == 0 {
		t.Error("Expected parse error after invalid change")
	}
}

func TestServer_DidClose(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	ctx := context.Background()

	openDoc(t, server, "file:///test.rs", "fn main() {}\n")

	diagCountAfterOpen := len(client.diagnostics)

	err := server.DidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{
			URI: "file:///test.rs",
		},
	})
	if err != nil {
		t.Fatalf("DidClose() error: %v", err)
	}

	if len(client.diagnostics) <= diagCountAfterOpen {
		t.Fatal("Expected diagnostics to be cleared on close")
	}

	latestDiag := client.diagnostics[len(client.diagnostics)-1]
	if len(latestDiag.Diagnostics) != 0 {
		t.Error("Expected empty diagnostics after close")
	}
}

func TestServer_Completion_Postfix(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	text := "fn main() {\n    bar.\n}\n"
	openDoc(t, server, "file:///test.rs", text)

	pos := positionOf(t, text, "bar.")
	pos.Character += 4 // After the dot.

	list, err := server.Completion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
			Position:     pos,
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	if list == nil || len(list.Items) == 0 {
		t.Fatal("Expected completion items")
	}

	var dbg *protocol.CompletionItem

	for i := range list.Items {
		if list.Items[i].Label == "dbg" {
			dbg = &list.Items[i]

			break
		}
	}

	if dbg == nil {
		t.Fatal("Expected a dbg postfix item")
	}

	if dbg.TextEdit == nil || dbg.TextEdit.NewText != "dbg!(bar)" {
		t.Errorf("Expected dbg!(bar) edit, got %+v", dbg.TextEdit)
	}

	// The edit replaces the receiver and the dot.
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 8},
	}
	if diff := cmp.Diff(want, dbg.TextEdit.Range); diff != "" {
		t.Errorf("TextEdit range mismatch (-want +got):\n%s", diff)
	}

	if len(dbg.SortText) != 5 {
		t.Errorf("Expected zero-padded sort text, got %q", dbg.SortText)
	}
}

func TestServer_Completion_SnippetFormat(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	text := "fn main() {\n    \n}\n"
	openDoc(t, server, "file:///test.rs", text)

	list, err := server.Completion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
			Position:     protocol.Position{Line: 1, Character: 4},
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	for _, item := range list.Items {
		if item.Label != "if" {
			continue
		}

		if item.InsertTextFormat != protocol.InsertTextFormatSnippet {
			t.Errorf("Expected snippet format for if, got %v", item.InsertTextFormat)
		}

		return
	}

	t.Fatal("Expected an if keyword item")
}

func TestServer_Completion_AutoImport(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	openDoc(t, server, "file:///proj/other.rs", "pub struct Widget;\n")

	text := "use std::fmt;\n\nfn main() {\n    Wi\n}\n"
	openDoc(t, server, "file:///proj/main.rs", text)

	pos := positionOf(t, text, "Wi")
	pos.Character += 2

	list, err := server.Completion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///proj/main.rs"},
			Position:     pos,
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	for _, item := range list.Items {
		if item.Label != "Widget" {
			continue
		}

		if item.Detail != "use crate::other::Widget" {
			t.Errorf("Expected import detail, got %q", item.Detail)
		}

		want := []protocol.TextEdit{{
			// After the file's last use declaration.
			Range: protocol.Range{
				Start: protocol.Position{Line: 1, Character: 0},
				End:   protocol.Position{Line: 1, Character: 0},
			},
			NewText: "use crate::other::Widget;\n",
		}}
		if diff := cmp.Diff(want, item.AdditionalTextEdits); diff != "" {
			t.Errorf("AdditionalTextEdits mismatch (-want +got):\n%s", diff)
		}

		return
	}

	t.Fatal("Expected a Widget flyimport item")
}

func TestServer_Completion_UnknownDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	list, err := server.Completion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nope.rs"},
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	if list != nil {
		t.Errorf("Expected nil list for unknown document, got %+v", list)
	}
}

func TestServer_Hover_Struct(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	text := "/// A point in the plane.\nstruct Point;\n\nfn f(p: Point) {}\n"
	openDoc(t, server, "file:///test.rs", text)

	hover, err := server.Hover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
			Position:     positionOf(t, text, "Point) {}"),
		},
	})
	if err != nil {
		t.Fatalf("Hover() error: %v", err)
	}

	if hover == nil {
		t.Fatal("Expected hover result")
	}

	if !strings.Contains(hover.Contents.Value, "struct Point") {
		t.Errorf("Expected signature in hover, got %q", hover.Contents.Value)
	}

	if !strings.Contains(hover.Contents.Value, "A point in the plane.") {
		t.Errorf("Expected doc in hover, got %q", hover.Contents.Value)
	}
}

func TestServer_Hover_FallsBackWhileBroken(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	text := "/// Docs.\nfn helper() {}\n"
	openDoc(t, server, "file:///test.rs", text)

	// Break the file mid-edit.
	broken := "/// Docs.\nfn helper() {}\n\nfn main( {\n"
	_ = server.DidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: broken}},
	})

	hover, err := server.Hover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
			Position:     positionOf(t, broken, "helper"),
		},
	})
	if err != nil {
		t.Fatalf("Hover() error: %v", err)
	}

	if hover == nil || !strings.Contains(hover.Contents.Value, "fn helper()") {
		t.Error("Expected hover from last valid analysis")
	}
}

func TestServer_Definition(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	text := "struct Point;\n\nfn f(p: Point) {}\n"
	openDoc(t, server, "file:///test.rs", text)

	locations, err := server.Definition(ctx, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
			Position:     positionOf(t, text, "Point) {}"),
		},
	})
	if err != nil {
		t.Fatalf("Definition() error: %v", err)
	}

	if len(locations) != 1 {
		t.Fatalf("Expected 1 location, got %d", len(locations))
	}

	loc := locations[0]
	if loc.URI != "file:///test.rs" {
		t.Errorf("Expected same-document location, got %v", loc.URI)
	}

	if loc.Range.Start.Line != 0 {
		t.Errorf("Expected declaration on line 0, got %d", loc.Range.Start.Line)
	}
}

func TestServer_Definition_AcrossDocuments(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	openDoc(t, server, "file:///proj/store.rs", "pub struct Record;\n")

	text := "fn f(r: Record) {}\n"
	openDoc(t, server, "file:///proj/main.rs", text)

	locations, err := server.Definition(ctx, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///proj/main.rs"},
			Position:     positionOf(t, text, "Record"),
		},
	})
	if err != nil {
		t.Fatalf("Definition() error: %v", err)
	}

	if len(locations) != 1 || locations[0].URI != "file:///proj/store.rs" {
		t.Fatalf("Expected location in store.rs, got %+v", locations)
	}
}

func TestServer_DocumentSymbol(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	ctx := context.Background()

	text := `struct Point {
    x: i32,
}

enum Dir {
    North,
}

fn main() {}
`
	openDoc(t, server, "file:///test.rs", text)

	symbols, err := server.DocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///test.rs"},
	})
	if err != nil {
		t.Fatalf("DocumentSymbol() error: %v", err)
	}

	if len(symbols) != 3 {
		t.Fatalf("Expected 3 symbols, got %d", len(symbols))
	}

	point, ok := symbols[0].(protocol.DocumentSymbol)
	if !ok {
		t.Fatalf("Expected protocol.DocumentSymbol, got %T", symbols[0])
	}

	if point.Name != "Point" || point.Kind != protocol.SymbolKindStruct {
		t.Errorf("Expected struct Point first, got %+v", point)
	}

	if len(point.Children) != 1 || point.Children[0].Name != "x" {
		t.Errorf("Expected field child, got %+v", point.Children)
	}

	dir, _ := symbols[1].(protocol.DocumentSymbol)
	if dir.Name != "Dir" || len(dir.Children) != 1 || dir.Children[0].Kind != protocol.SymbolKindEnumMember {
		t.Errorf("Expected enum with variant child, got %+v", dir)
	}

	main, _ := symbols[2].(protocol.DocumentSymbol)
	if main.Name != "main" || main.Kind != protocol.SymbolKindFunction {
		t.Errorf("Expected fn main last, got %+v", main)
	}
}

func TestServer_UnsupportedRequestsReturnEmpty(t *testing.T) {
	server, _ := newTestServer(t)
	ctx := context.Background()

	openDoc(t, server, "file:///test.rs", "fn main() {}\n")

	refs, err := server.References(ctx, &protocol.ReferenceParams{})
	if err != nil {
		t.Fatalf("References() error: %v", err)
	}

	if refs != nil {
		t.Errorf("Expected no references, got %v", refs)
	}

	help, err := server.SignatureHelp(ctx, &protocol.SignatureHelpParams{})
	if err != nil {
		t.Fatalf("SignatureHelp() error: %v", err)
	}

	if help != nil {
		t.Errorf("Expected no signature help, got %v", help)
	}
}
