package edgepat_test

import (
	"context"
	"testing"

	"github.com/rlch/edgepat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatabase struct {
	cfg any
}

func (f *fakeDatabase) Name() string { return "fake" }

func (f *fakeDatabase) Import(_ context.Context, list *edgepat.PatternList) (*edgepat.ImportResult, error) {
	return &edgepat.ImportResult{Patterns: len(list.Patterns)}, nil
}

func (f *fakeDatabase) Execute(context.Context, string, map[string]any) ([]map[string]any, error) {
	return nil, nil
}

func (f *fakeDatabase) Close() error { return nil }

func TestDatabaseRegistry(t *testing.T) {
	edgepat.RegisterDatabase("fake", func(cfg any) (edgepat.Database, error) {
		return &fakeDatabase{cfg: cfg}, nil
	})

	assert.Contains(t, edgepat.RegisteredDatabases(), "fake")

	db, err := edgepat.NewDatabase("fake", "cfg")
	require.NoError(t, err)
	assert.Equal(t, "fake", db.Name())
	assert.Equal(t, "cfg", db.(*fakeDatabase).cfg)

	list, err := edgepat.Parse("(:A {}) -[:R]-> (:B {}); (:B {}) -[:R]-> (:C {});")
	require.NoError(t, err)

	res, err := db.Import(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Patterns)

	_, err = edgepat.NewDatabase("missing", nil)
	require.ErrorIs(t, err, edgepat.ErrUnknownDatabase)
}
