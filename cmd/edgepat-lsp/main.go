// Command edgepat-lsp is a Language Server Protocol server for edge
// pattern files.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/edgepat"
	"github.com/rlch/edgepat/lsp"
)

var (
	debugFlag  = flag.Bool("debug", false, "Enable debug logging")
	clientFlag = flag.Bool("client-log", false, "Also send log messages to the editor")
)

func main() {
	flag.Parse()

	// Set up logging to stderr (stdout is for LSP communication)
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if *debugFlag {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting edgepat-lsp server")

	err = run(context.Background(), logger, config.Level, os.Stdin, os.Stdout)
	if err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, level zapcore.LevelEnabler, in io.Reader, out io.Writer) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	serverLogger := logger
	if *clientFlag {
		var stop func()

		serverLogger, stop = lsp.NewClientLogger(client, logger.Core(), level)
		defer stop()
	}

	server := lsp.NewServer(client, serverLogger, parseOptions(logger)...)

	conn.Go(ctx, server.Handler())

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

// parseOptions reads parser limits from the nearest .edgepat.yaml.
func parseOptions(logger *zap.Logger) []edgepat.Option {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	cfg, err := edgepat.LoadConfig(cwd)
	if err != nil {
		if !errors.Is(err, edgepat.ErrConfigNotFound) {
			logger.Warn("Ignoring config", zap.Error(err))
		}

		return nil
	}

	logger.Info("Loaded config", zap.String("dir", cfg.Dir()))

	return cfg.ParseOptions()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
