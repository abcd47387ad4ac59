package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/edgepat"
)

// diagnosticSource is reported as the source of every diagnostic.
const diagnosticSource = "edgepat"

// publishDiagnostics publishes the parse error of doc, or an empty list
// when it parses.
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	diagnostics := []protocol.Diagnostic{}
	if doc.Err != nil {
		diagnostics = append(diagnostics, convertError(doc.Content, doc.Err))
	}

	s.logger.Debug("publishDiagnostics",
		zap.String("uri", string(doc.URI)),
		zap.Int32("version", doc.Version),
		zap.Int("count", len(diagnostics)))

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("publishDiagnostics: RPC failed", zap.Error(err))
	}
}

// convertError converts a parse error to an LSP diagnostic whose code is the
// error kind.
func convertError(content string, err *edgepat.ParseError) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    errorRange(content, err.Pos.Offset),
		Severity: protocol.DiagnosticSeverityError,
		Code:     err.Kind.String(),
		Source:   diagnosticSource,
		Message:  err.Description(),
	}
}
