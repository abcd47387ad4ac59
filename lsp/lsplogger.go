package lsp

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// clientCore is a zapcore.Core that forwards entries to the client as
// window/logMessage notifications.
type clientCore struct {
	client  Client
	level   zapcore.LevelEnabler
	encoder zapcore.Encoder
	fields  []zapcore.Field

	// shared by clones
	mu    *sync.Mutex
	ctx   context.Context
	queue chan *protocol.LogMessageParams
}

// NewClientLogger creates a logger that sends entries at or above level to
// the client and also writes them to fallback (typically stderr). Call the
// returned stop function once the connection is closed.
func NewClientLogger(client Client, fallback zapcore.Core, level zapcore.LevelEnabler) (*zap.Logger, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	core := &clientCore{
		client: client,
		level:  level,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeDuration: zapcore.StringDurationEncoder,
		}),
		mu:    &sync.Mutex{},
		ctx:   ctx,
		queue: make(chan *protocol.LogMessageParams, 100),
	}

	go core.send()

	return zap.New(zapcore.NewTee(core, fallback)), cancel
}

// send delivers queued messages until the context is cancelled.
func (c *clientCore) send() {
	for {
		select {
		case params := <-c.queue:
			// The client may already be gone
			_ = c.client.LogMessage(c.ctx, params)
		case <-c.ctx.Done():
			return
		}
	}
}

// Enabled implements zapcore.Core.
func (c *clientCore) Enabled(level zapcore.Level) bool {
	return c.level.Enabled(level)
}

// With implements zapcore.Core.
func (c *clientCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.encoder = c.encoder.Clone()
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)

	return &clone
}

// Check implements zapcore.Core.
func (c *clientCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

// Write implements zapcore.Core. Entries are dropped when the queue is
// full.
func (c *clientCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.mu.Lock()
	buf, err := c.encoder.EncodeEntry(entry, append(c.fields, fields...))
	c.mu.Unlock()

	if err != nil {
		return err
	}

	message := strings.TrimSpace(buf.String())
	buf.Free()

	select {
	case c.queue <- &protocol.LogMessageParams{Type: messageType(entry.Level), Message: message}:
	default:
	}

	return nil
}

// Sync implements zapcore.Core.
func (c *clientCore) Sync() error {
	return nil
}

// messageType maps zap levels to LSP message types.
func messageType(level zapcore.Level) protocol.MessageType {
	switch level {
	case zapcore.DebugLevel:
		return protocol.MessageTypeLog
	case zapcore.InfoLevel:
		return protocol.MessageTypeInfo
	case zapcore.WarnLevel:
		return protocol.MessageTypeWarning
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return protocol.MessageTypeError
	default:
		return protocol.MessageTypeInfo
	}
}
