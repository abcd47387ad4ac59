package edgepat

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .edgepat.yaml configuration file.
type Config struct {
	Parser ParserConfig `yaml:"parser,omitempty"`

	// Include lists doublestar globs, relative to the config file, that
	// select the pattern files to load when no paths are given.
	Include []string `yaml:"include,omitempty"`

	// Extensions are the file extensions picked up when walking
	// directories, without the leading dot.
	Extensions []string `yaml:"extensions,omitempty"`

	Schema SchemaConfig `yaml:"schema,omitempty"`

	Graph GraphConfig `yaml:"graph,omitempty"`

	// Neo4j enables the neo4j database for the load command.
	Neo4j *Neo4jConfig `yaml:"neo4j,omitempty"`

	// dir is the directory the config was loaded from.
	dir string
}

// ParserConfig holds parser limits.
type ParserConfig struct {
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// SchemaConfig holds settings for schema extraction.
type SchemaConfig struct {
	PrimaryKey string `yaml:"primary_key,omitempty"`
}

// GraphConfig holds the defaults of the graph command. Empty fields keep
// the built-in Graphviz attributes.
type GraphConfig struct {
	Name      string `yaml:"name,omitempty"`
	Layout    string `yaml:"layout,omitempty"`
	Shape     string `yaml:"shape,omitempty"`
	Arrowhead string `yaml:"arrowhead,omitempty"`
}

// Neo4jConfig holds Neo4j connection settings.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// Defaults.
const (
	DefaultPrimaryKey = "id"
)

// DefaultExtensions are the pattern file extensions used when the config
// does not list any.
var DefaultExtensions = []string{"cypher", "edges"}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".edgepat.yaml", ".edgepat.yml", "edgepat.yaml", "edgepat.yml"}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{}
}

// Dir returns the directory containing the config file, or "" for a
// default config.
func (c *Config) Dir() string {
	return c.dir
}

// DatabaseName returns the configured database name, or empty if none.
func (c *Config) DatabaseName() string {
	if c.Neo4j != nil {
		return DatabaseNeo4j
	}

	return ""
}

// ParseOptions returns the parser options implied by the config.
func (c *Config) ParseOptions() []Option {
	if c.Parser.MaxDepth > 0 {
		return []Option{WithMaxDepth(c.Parser.MaxDepth)}
	}

	return nil
}

// FileExtensions returns the configured extensions or DefaultExtensions.
func (c *Config) FileExtensions() []string {
	if len(c.Extensions) > 0 {
		return c.Extensions
	}

	return DefaultExtensions
}

// PrimaryKey returns the configured primary key property or
// DefaultPrimaryKey.
func (c *Config) PrimaryKey() string {
	if c.Schema.PrimaryKey != "" {
		return c.Schema.PrimaryKey
	}

	return DefaultPrimaryKey
}

// IncludePatterns returns the include globs resolved against the config
// directory.
func (c *Config) IncludePatterns() []string {
	patterns := make([]string, 0, len(c.Include))

	for _, pattern := range c.Include {
		if c.dir != "" && !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.dir, pattern)
		}

		patterns = append(patterns, filepath.ToSlash(pattern))
	}

	return patterns
}

// LoadConfig finds and loads the nearest .edgepat.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err == nil {
		cfg.dir = filepath.Dir(abs)
	}

	return &cfg, nil
}
