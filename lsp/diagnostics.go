package lsp

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// publishDiagnostics converts parse errors to LSP diagnostics and
// publishes them. A clean parse publishes an empty list, clearing
// stale squiggles.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	if doc.Analysis == nil {
		return
	}

	diagnostics := make([]protocol.Diagnostic, 0)

	for _, err := range flattenErrors(doc.Analysis.ParseError) {
		diag := diagnosticFromError(err)
		s.logger.Debug("Publishing diagnostic",
			zap.Uint32("line", diag.Range.Start.Line),
			zap.Uint32("char", diag.Range.Start.Character),
			zap.String("message", diag.Message))
		diagnostics = append(diagnostics, diag)
	}

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// flattenErrors unwraps an errors.Join tree into its leaves.
func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error

		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}

		return out
	}

	return []error{err}
}

// errorPosPattern matches the "file:line:col:" prefix parse errors carry.
var errorPosPattern = regexp.MustCompile(`:(\d+):(\d+): (.*)$`)

// diagnosticFromError extracts the position prefix from one parse error.
func diagnosticFromError(err error) protocol.Diagnostic {
	message := err.Error()
	pos := protocol.Position{}

	if m := errorPosPattern.FindStringSubmatch(message); m != nil {
		line, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		pos = protocol.Position{
			Line:      uint32(max(0, line-1)), //nolint:gosec // G115: small line numbers
			Character: uint32(max(0, col-1)),  //nolint:gosec // G115: small column numbers
		}
		message = m[3]
	}

	message = strings.TrimPrefix(message, "syntax error: ")

	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: protocol.DiagnosticSeverityError,
		Source:   "rust-analyzer",
		Message:  message,
	}
}
