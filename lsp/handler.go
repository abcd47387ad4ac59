package lsp

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Handler returns the jsonrpc2 handler serving s. Methods the server does
// not implement are answered with MethodNotFound.
func (s *Server) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		defer s.traceHandler(req.Method())()

		if s.isShutdown() && req.Method() != protocol.MethodExit {
			return reply(ctx, nil, fmt.Errorf("%q after shutdown: %w", req.Method(), jsonrpc2.ErrInvalidRequest))
		}

		dec := json.NewDecoder(bytes.NewReader(req.Params()))

		switch req.Method() {
		case protocol.MethodInitialize: // request
			var params protocol.InitializeParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			resp, err := s.Initialize(ctx, &params)

			return reply(ctx, resp, err)

		case protocol.MethodInitialized: // notification
			var params protocol.InitializedParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.Initialized(ctx, &params))

		case protocol.MethodShutdown: // request
			return reply(ctx, nil, s.Shutdown(ctx))

		case protocol.MethodExit: // notification
			return reply(ctx, nil, s.Exit(ctx))

		case protocol.MethodTextDocumentDidOpen: // notification
			var params protocol.DidOpenTextDocumentParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidOpen(ctx, &params))

		case protocol.MethodTextDocumentDidChange: // notification
			var params protocol.DidChangeTextDocumentParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidChange(ctx, &params))

		case protocol.MethodTextDocumentDidClose: // notification
			var params protocol.DidCloseTextDocumentParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidClose(ctx, &params))

		case protocol.MethodTextDocumentDidSave: // notification
			var params protocol.DidSaveTextDocumentParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidSave(ctx, &params))

		case protocol.MethodTextDocumentFormatting: // request
			var params protocol.DocumentFormattingParams
			if err := dec.Decode(&params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			resp, err := s.Formatting(ctx, &params)

			return reply(ctx, resp, err)

		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}

func replyParseError(ctx context.Context, reply jsonrpc2.Replier, err error) error {
	return reply(ctx, nil, fmt.Errorf("%w: %w", jsonrpc2.ErrParse, err))
}

// traceHandler logs entry and exit of a handler at debug level.
func (s *Server) traceHandler(method string) func() {
	start := time.Now()
	s.logger.Debug(">>> HANDLER START", zap.String("method", method))

	return func() {
		s.logger.Debug("<<< HANDLER END", zap.String("method", method), zap.Duration("elapsed", time.Since(start)))
	}
}
