package edgepat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlch/edgepat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	config := `
parser:
  max_depth: 16
include:
  - graphs/**/*.edges
  - /abs/*.cypher
extensions: [edges]
schema:
  primary_key: uid
graph:
  layout: circo
  shape: ellipse
neo4j:
  uri: bolt://localhost:7687
  username: neo4j
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".edgepat.yaml"), []byte(config), 0o600))

	cfg, err := edgepat.LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Parser.MaxDepth)
	assert.Len(t, cfg.ParseOptions(), 1)
	assert.Equal(t, []string{"edges"}, cfg.FileExtensions())
	assert.Equal(t, "uid", cfg.PrimaryKey())
	assert.Equal(t, edgepat.GraphConfig{Layout: "circo", Shape: "ellipse"}, cfg.Graph)
	assert.Equal(t, edgepat.DatabaseNeo4j, cfg.DatabaseName())
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)

	resolved, err := filepath.EvalSymlinks(cfg.Dir())
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, resolved)

	assert.Equal(t, []string{
		filepath.ToSlash(filepath.Join(cfg.Dir(), "graphs/**/*.edges")),
		"/abs/*.cypher",
	}, cfg.IncludePatterns())
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := edgepat.DefaultConfig()

	assert.Empty(t, cfg.ParseOptions())
	assert.Equal(t, edgepat.DefaultExtensions, cfg.FileExtensions())
	assert.Equal(t, edgepat.DefaultPrimaryKey, cfg.PrimaryKey())
	assert.Empty(t, cfg.DatabaseName())
	assert.Empty(t, cfg.IncludePatterns())
	assert.Empty(t, cfg.Dir())
}

func TestFindConfigNotFound(t *testing.T) {
	t.Parallel()

	// The temp dir's ancestors are not expected to carry an edgepat config.
	_, err := edgepat.FindConfig(t.TempDir())
	if err != nil {
		require.ErrorIs(t, err, edgepat.ErrConfigNotFound)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "edgepat.yml")
	require.NoError(t, os.WriteFile(path, []byte("parser: [not, a, map]\n"), 0o600))

	_, err := edgepat.LoadConfigFile(path)
	require.Error(t, err)
}
