// Command edgepat checks, formats and converts edge pattern files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/edgepat"
	"github.com/rlch/edgepat/loader"
	"github.com/rlch/edgepat/report"
)

// stdinName names standard input in diagnostics.
const stdinName = "<stdin>"

// CLI errors.
var (
	ErrUnknownOutput = errors.New("unknown output format")
	ErrNotFormatted  = errors.New("files are not formatted")
)

// app holds state shared by every command, set up in before.
type app struct {
	cfg    *edgepat.Config
	logger *zap.Logger
	loader *loader.Loader
}

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "edgepat:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	a := &app{}

	return &cli.Command{
		Name:  "edgepat",
		Usage: "Work with edge pattern files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to .edgepat.yaml (default: search upwards from the working directory)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.checkCommand(),
			a.parseCommand(),
			a.fmtCommand(),
			a.schemaCommand(),
			a.createCommand(),
			a.loadCommand(),
			a.graphCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cmd.Bool("debug") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return ctx, err
	}

	zap.ReplaceGlobals(logger)
	a.logger = logger

	a.cfg, err = loadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	logger.Debug("configuration loaded", zap.String("dir", a.cfg.Dir()))

	a.loader = loader.NewLoader(
		loader.WithLogger(logger),
		loader.WithParseOptions(a.cfg.ParseOptions()...),
	)

	return ctx, nil
}

func (a *app) after(context.Context, *cli.Command) error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}

	return nil
}

// loadConfig loads the file at path, or the nearest config above the
// working directory. A missing config yields the defaults.
func loadConfig(path string) (*edgepat.Config, error) {
	if path != "" {
		cfg, err := edgepat.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}

		return cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}

	cfg, err := edgepat.LoadConfig(cwd)
	if errors.Is(err, edgepat.ErrConfigNotFound) {
		return edgepat.DefaultConfig(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}

// input is one source to read: a file path, or standard input.
type input struct {
	path  string
	stdin bool
}

func (in input) name() string {
	if in.stdin {
		return stdinName
	}

	return in.path
}

// inputs resolves the command arguments. "-" reads standard input. With no
// arguments the config's include globs are used, then piped standard input,
// then the working directory is walked.
func (a *app) inputs(cmd *cli.Command) ([]input, error) {
	args := cmd.Args().Slice()

	if len(args) == 0 {
		if include := a.cfg.IncludePatterns(); len(include) > 0 {
			paths, err := loader.Glob(include)
			if err != nil {
				return nil, err
			}

			return pathInputs(paths), nil
		}

		if stdinPiped(cmd.Root().Reader) {
			return []input{{stdin: true}}, nil
		}

		args = []string{"."}
	}

	var (
		inputs []input
		paths  []string
	)

	for _, arg := range args {
		if arg == "-" {
			inputs = append(inputs, input{stdin: true})
			continue
		}

		paths = append(paths, arg)
	}

	if len(paths) > 0 {
		collected, err := loader.Collect(paths, a.cfg.FileExtensions())
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, pathInputs(collected)...)
	}

	return inputs, nil
}

func pathInputs(paths []string) []input {
	inputs := make([]input, len(paths))
	for i, path := range paths {
		inputs[i] = input{path: path}
	}

	return inputs
}

// stdinPiped reports whether r is something other than a terminal.
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}

	fd := f.Fd()

	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// load reads and parses in.
func (a *app) load(cmd *cli.Command, in input) (*loader.File, error) {
	if !in.stdin {
		return a.loader.Load(in.path)
	}

	data, err := io.ReadAll(cmd.Root().Reader)
	if err != nil {
		return nil, &loader.LoadError{Path: stdinName, Cause: err}
	}

	return a.loader.LoadSource(stdinName, data)
}

// loadAll parses every input and joins the patterns into one list. The
// first failure is reported on the error writer.
func (a *app) loadAll(cmd *cli.Command) (*edgepat.PatternList, error) {
	inputs, err := a.inputs(cmd)
	if err != nil {
		return nil, err
	}

	list := &edgepat.PatternList{}

	for _, in := range inputs {
		f, err := a.load(cmd, in)
		if err != nil {
			return nil, a.fail(cmd, in, err)
		}

		list.Patterns = append(list.Patterns, f.Patterns.Patterns...)
	}

	return list, nil
}

// fail prints a load failure as a diagnostic and returns an exit error.
func (a *app) fail(cmd *cli.Command, in input, err error) error {
	var source []byte
	if loadErr := asLoadError(err); loadErr != nil {
		source = loadErr.Source
	}

	formatter := report.NewTextFormatter(cmd.Root().ErrWriter)

	ferr := formatter.Format(report.FromError(in.name(), source, err))
	if ferr != nil {
		return ferr
	}

	return cli.Exit("", 1)
}

func asLoadError(err error) *loader.LoadError {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}

	return nil
}
