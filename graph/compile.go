package graph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrCompile is returned when the Graphviz binary fails.
var ErrCompile = errors.New("graph: dot failed")

// DefaultFormat is the output format used when the output path has no
// extension.
const DefaultFormat = "svg"

// Format returns the Graphviz output format for path: its extension without
// the dot, or DefaultFormat.
func Format(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return DefaultFormat
	}

	return ext
}

// Compiler runs the Graphviz dot binary.
type Compiler struct {
	// Command is the binary to run. The default is "dot".
	Command string
	Logger  *zap.Logger
}

// Compile renders the DOT file at source to output, in the format named by
// output's extension.
func (c *Compiler) Compile(ctx context.Context, source, output string) error {
	command := c.Command
	if command == "" {
		command = "dot"
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	args := []string{"-T" + Format(output), "-o", output, source}
	logger.Debug("running graphviz", zap.String("command", command), zap.Strings("args", args))

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%w: %w: %s", ErrCompile, err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

// Render writes g to output. A ".dot" output receives the DOT source itself;
// any other output is compiled from a temporary DOT file.
func (c *Compiler) Render(ctx context.Context, cfg Config, g *Graph, output string) error {
	if Format(output) == "dot" {
		return writeFile(output, cfg, g)
	}

	dir, err := os.MkdirTemp("", "edgepat-graph-")
	if err != nil {
		return fmt.Errorf("graph: creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	source := filepath.Join(dir, "graph.dot")

	err = writeFile(source, cfg, g)
	if err != nil {
		return err
	}

	return c.Compile(ctx, source, output)
}

func writeFile(path string, cfg Config, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	err = Write(f, cfg, g)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("graph: writing %s: %w", path, err)
	}

	return f.Close()
}
