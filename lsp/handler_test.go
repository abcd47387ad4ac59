package lsp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type replyRecorder struct {
	called bool
	result any
	err    error
}

func (r *replyRecorder) reply(_ context.Context, result any, err error) error {
	r.called = true
	r.result = result
	r.err = err

	return nil
}

func call(t *testing.T, h jsonrpc2.Handler, method string, params any) *replyRecorder {
	t.Helper()

	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), method, params)
	require.NoError(t, err)

	rec := &replyRecorder{}
	require.NoError(t, h(t.Context(), rec.reply, req))
	require.True(t, rec.called, "handler did not reply to %s", method)

	return rec
}

func notify(t *testing.T, h jsonrpc2.Handler, method string, params any) *replyRecorder {
	t.Helper()

	req, err := jsonrpc2.NewNotification(method, params)
	require.NoError(t, err)

	rec := &replyRecorder{}
	require.NoError(t, h(t.Context(), rec.reply, req))

	return rec
}

func TestHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t)
	h := server.Handler()

	rec := call(t, h, protocol.MethodInitialize, &protocol.InitializeParams{RootURI: "file:///tmp"})
	require.NoError(t, rec.err)

	result, ok := rec.result.(*protocol.InitializeResult)
	require.True(t, ok)
	assert.True(t, result.Capabilities.DocumentFormattingProvider.(bool))
	assert.Equal(t, "edgepat-lsp", result.ServerInfo.Name)

	require.NoError(t, notify(t, h, protocol.MethodInitialized, &protocol.InitializedParams{}).err)

	rec = notify(t, h, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 1, Text: "(:A{})-[:R]->(:B{});"},
	})
	require.NoError(t, rec.err)
	assert.Empty(t, client.lastDiagnostics(t).Diagnostics)

	rec = call(t, h, protocol.MethodTextDocumentFormatting, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, rec.err)

	edits, ok := rec.result.([]protocol.TextEdit)
	require.True(t, ok)
	require.Len(t, edits, 1)
	assert.Equal(t, "(:A {}) -[:R]-> (:B {});\n", edits[0].NewText)

	rec = notify(t, h, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "(:A {})"}},
	})
	require.NoError(t, rec.err)
	assert.Len(t, client.lastDiagnostics(t).Diagnostics, 1)

	rec = notify(t, h, protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, rec.err)
	assert.Empty(t, client.lastDiagnostics(t).Diagnostics)

	require.NoError(t, call(t, h, protocol.MethodShutdown, nil).err)

	rec = call(t, h, protocol.MethodTextDocumentFormatting, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.ErrorIs(t, rec.err, jsonrpc2.ErrInvalidRequest)

	require.NoError(t, notify(t, h, protocol.MethodExit, nil).err)
}

func TestHandler_MethodNotFound(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	rec := call(t, server.Handler(), protocol.MethodTextDocumentHover, &protocol.HoverParams{})
	require.ErrorIs(t, rec.err, jsonrpc2.ErrMethodNotFound)
}

func TestHandler_InvalidParams(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	rec := call(t, server.Handler(), protocol.MethodTextDocumentDidOpen, []int{1, 2})
	require.ErrorIs(t, rec.err, jsonrpc2.ErrParse)
}
