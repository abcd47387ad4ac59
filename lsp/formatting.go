package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/edgepat"
)

// Formatting handles textDocument/formatting. The result is a single edit
// replacing the whole document with its canonical form, or no edits when
// the document is already canonical or does not parse.
func (s *Server) Formatting(_ context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc, ok := s.Document(params.TextDocument.URI)
	if !ok {
		s.logger.Warn("Formatting for unknown document", zap.String("uri", string(params.TextDocument.URI)))
		return nil, nil
	}

	if doc.Patterns == nil {
		return nil, nil
	}

	formatted := edgepat.Format(doc.Patterns)
	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{},
			End:   documentEnd(doc.Content),
		},
		NewText: formatted,
	}}, nil
}
