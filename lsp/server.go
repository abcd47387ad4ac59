// Package lsp implements a Language Server Protocol server for edge pattern
// files.
package lsp

import (
	"context"
	"errors"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/edgepat"
)

// Client is the part of protocol.Client the server calls back into.
type Client interface {
	PublishDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) error
	LogMessage(ctx context.Context, params *protocol.LogMessageParams) error
}

// Server handles LSP requests for edge pattern documents.
type Server struct {
	client Client
	logger *zap.Logger
	opts   []edgepat.Option

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	shutdown bool
}

// Document represents an open document in the server.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string

	// Patterns is nil when the document does not parse; Err then holds the
	// failure.
	Patterns *edgepat.PatternList
	Err      *edgepat.ParseError
}

// NewServer creates a new LSP server. opts are passed to every parse.
func NewServer(client Client, logger *zap.Logger, opts ...edgepat.Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		client:    client,
		logger:    logger,
		opts:      opts,
		documents: make(map[protocol.DocumentURI]*Document),
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("root", string(params.RootURI)))

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "edgepat-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")

	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The connection owner stops serving after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}
	s.parse(doc)

	// Hold lock only for document map update
	s.mu.Lock()
	s.documents[doc.URI] = doc
	s.mu.Unlock()

	// Publish diagnostics outside the lock so client requests are not blocked
	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidChange handles textDocument/didChange notifications. Only full sync is
// supported, so the last change holds the whole document.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.logger.Debug("DidChange",
		zap.String("uri", string(uri)),
		zap.Int32("version", params.TextDocument.Version))

	if len(params.ContentChanges) == 0 {
		return nil
	}

	doc := &Document{
		URI:     uri,
		Version: params.TextDocument.Version,
		Content: params.ContentChanges[len(params.ContentChanges)-1].Text,
	}
	s.parse(doc)

	s.mu.Lock()
	_, ok := s.documents[uri]
	if ok {
		s.documents[uri] = doc
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(uri)))
		return nil
	}

	s.publishDiagnostics(ctx, doc)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

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
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))
	return nil
}

func (s *Server) isShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.shutdown
}

// Document returns an open document by URI.
func (s *Server) Document(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

func (s *Server) parse(doc *Document) {
	opts := append([]edgepat.Option{edgepat.WithFilename(string(doc.URI))}, s.opts...)

	list, err := edgepat.Parse(doc.Content, opts...)
	if err != nil {
		var parseErr *edgepat.ParseError
		if !errors.As(err, &parseErr) {
			parseErr = &edgepat.ParseError{Kind: edgepat.SyntaxError, Message: err.Error()}
		}

		doc.Err = parseErr

		return
	}

	doc.Patterns = list
}
