// Package lsp implements a Language Server Protocol server for Rust
// source files, backed by the completion engine.
package lsp

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/completion"
)

// Server implements the LSP Server interface.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// Analyzer for semantic analysis
	analyzer *analysis.Analyzer

	// FileLoader for file-system backed queries (mod completion,
	// cross-file symbols)
	fileLoader *FileLoader

	// Completion configuration, from the nearest config file
	completionConfig completion.Config

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI      protocol.DocumentURI
	Version  int32
	Content  string
	Analysis *analysis.AnalyzedFile

	// LastValidAnalysis holds the most recent analysis that parsed
	// without errors. Hover and symbols fall back to it while the file
	// is mid-edit; completion always works on the current content.
	LastValidAnalysis *analysis.AnalyzedFile
}

// NewServer creates a new LSP server.
func NewServer(client protocol.Client, logger *zap.Logger, cfg completion.Config) *Server {
	fileLoader := NewFileLoader(logger)

	return &Server{
		client:           client,
		logger:           logger,
		documents:        make(map[protocol.DocumentURI]*Document),
		analyzer:         analysis.NewAnalyzer(fileLoader),
		fileLoader:       fileLoader,
		completionConfig: cfg,
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.Any("params", params))

	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
		s.logger.Info("Workspace root (from RootPath)", zap.String("root", s.workspaceRoot))
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			HoverProvider:      true,
			DefinitionProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{".", ":"},
				ResolveProvider:   false,
			},
			DocumentSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "rust-analyzer-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	// Use the file system path (not URI) so sibling-file queries work
	docPath := URIToPath(params.TextDocument.URI)
	doc.Analysis = s.analyzer.Analyze(docPath, []byte(params.TextDocument.Text))

	if doc.Analysis.ParseError == nil {
		doc.LastValidAnalysis = doc.Analysis
	}

	s.documents[params.TextDocument.URI] = doc

	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version

		docPath := URIToPath(params.TextDocument.URI)
		s.fileLoader.InvalidatePath(docPath)
		doc.Analysis = s.analyzer.Analyze(docPath, []byte(doc.Content))

		if doc.Analysis.ParseError == nil {
			doc.LastValidAnalysis = doc.Analysis
		}

		s.publishDiagnostics(ctx, doc)
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, params.TextDocument.URI)

	// Clear diagnostics for closed document
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// snapshotFor builds the analysis snapshot a request runs against: the
// requesting document plus every other open document.
func (s *Server) snapshotFor(doc *Document) *analysis.Snapshot {
	snap := analysis.NewSnapshot(s.fileLoader)

	snap.SetAnalyzed(doc.Analysis)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, other := range s.documents {
		if other.URI == doc.URI || other.Analysis == nil {
			continue
		}

		snap.SetAnalyzed(other.Analysis)
	}

	return snap
}
