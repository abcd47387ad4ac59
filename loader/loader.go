// Package loader reads and parses pattern files.
package loader

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"
	"github.com/rlch/edgepat"
	"go.uber.org/zap"
)

// Loader errors.
var (
	// ErrParse wraps the *edgepat.ParseError of a file that failed to parse.
	ErrParse = errors.New("parse error")

	// ErrNoFiles is returned by Collect when nothing matched.
	ErrNoFiles = errors.New("no pattern files found")
)

// File is a parsed pattern file.
type File struct {
	// Path is the absolute path, or the name given to LoadSource.
	Path     string
	Source   []byte
	Patterns *edgepat.PatternList
}

// LoadError describes a file that could not be loaded.
type LoadError struct {
	Path string
	// Source is the file content when the file could be read.
	Source []byte
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Loader loads and caches pattern files. It is not safe for concurrent use.
type Loader struct {
	// cache stores loaded files by absolute path.
	cache map[string]*File

	logger *zap.Logger
	opts   []edgepat.Option
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithParseOptions sets options passed to every parse.
func WithParseOptions(opts ...edgepat.Option) Option {
	return func(l *Loader) {
		l.opts = append(l.opts, opts...)
	}
}

// NewLoader creates a new file loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		cache:  make(map[string]*File),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads and parses the file at path. Relative paths are resolved from
// the current working directory. A file already loaded is returned from the
// cache.
func (l *Loader) Load(path string) (*File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	if f, ok := l.cache[absPath]; ok {
		return f, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &LoadError{Path: absPath, Cause: err}
	}

	f, err := l.parse(absPath, data)
	if err != nil {
		return nil, err
	}

	l.cache[absPath] = f

	return f, nil
}

// LoadSource parses data under the given name without touching the cache.
// It is used for standard input.
func (l *Loader) LoadSource(name string, data []byte) (*File, error) {
	return l.parse(name, data)
}

func (l *Loader) parse(path string, data []byte) (*File, error) {
	opts := append([]edgepat.Option{edgepat.WithFilename(path)}, l.opts...)

	list, err := edgepat.ParseBytes(data, opts...)
	if err != nil {
		l.logger.Debug("parse failed", zap.String("path", path), zap.Error(err))

		return nil, &LoadError{
			Path:   path,
			Source: data,
			Cause:  fmt.Errorf("%w: %w", ErrParse, err),
		}
	}

	l.logger.Debug("loaded file",
		zap.String("path", path),
		zap.Int("patterns", len(list.Patterns)),
	)

	return &File{Path: path, Source: data, Patterns: list}, nil
}

// Clear clears the file cache.
func (l *Loader) Clear() {
	l.cache = make(map[string]*File)
}

// Cached returns all cached files.
func (l *Loader) Cached() map[string]*File {
	result := make(map[string]*File, len(l.cache))
	maps.Copy(result, l.cache)

	return result
}

// Collect expands args into a sorted list of file paths. Directories are
// walked for files with one of the extensions, respecting .gitignore and
// .ignore files. Arguments holding glob metacharacters are expanded with
// doublestar syntax. Anything else is taken as a file path.
func Collect(args, extensions []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		if isGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}

			paths = append(paths, matches...)

			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := walkDir(arg, extensions)
		if err != nil {
			return nil, err
		}

		paths = append(paths, found...)
	}

	for i, p := range paths {
		paths[i] = filepath.Clean(p)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	return paths, nil
}

// Glob expands doublestar patterns into a sorted list of files.
func Glob(patterns []string) ([]string, error) {
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}

		paths = append(paths, matches...)
	}

	slices.Sort(paths)

	return slices.Compact(paths), nil
}

func isGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

// walkDir walks a directory for pattern files, respecting .gitignore.
func walkDir(root string, extensions []string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = extensions

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var (
		paths []string
		wg    sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			paths = append(paths, f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	return paths, walkErr
}
