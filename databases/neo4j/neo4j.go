// Package neo4j imports edge patterns into a Neo4j database.
package neo4j

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/rlch/edgepat"
	"go.uber.org/zap"
)

// Errors returned by the Neo4j database.
var (
	ErrInvalidConfig    = errors.New("neo4j: expected *edgepat.Config or *edgepat.Neo4jConfig")
	ErrUnexpectedResult = errors.New("neo4j: unexpected result")
)

//nolint:gochecknoinits // Database self-registration pattern
func init() {
	edgepat.RegisterDatabase(edgepat.DatabaseNeo4j, func(cfg any) (edgepat.Database, error) {
		switch c := cfg.(type) {
		case *edgepat.Config:
			if c.Neo4j == nil {
				return nil, fmt.Errorf("%w: config has no neo4j section", ErrInvalidConfig)
			}

			return New(c.Neo4j, WithPrimaryKey(c.PrimaryKey()), WithLogger(zap.L()))
		case *edgepat.Neo4jConfig:
			return New(c, WithLogger(zap.L()))
		default:
			return nil, fmt.Errorf("%w, got %T", ErrInvalidConfig, cfg)
		}
	})
}

// Database implements edgepat.Database and edgepat.TransactionalDatabase for
// Neo4j.
type Database struct {
	driver  neo4j.DriverWithContext
	session neo4j.SessionWithContext
	db      string

	primaryKey string
	logger     *zap.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithPrimaryKey sets the property nodes are merged on. The default is
// edgepat.DefaultPrimaryKey.
func WithPrimaryKey(key string) Option {
	return func(d *Database) {
		if key != "" {
			d.primaryKey = key
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Database) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a new Neo4j database connection from the given configuration.
func New(cfg *edgepat.Neo4jConfig, opts ...Option) (*Database, error) {
	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to create driver: %w", err)
	}

	d := &Database{
		driver:     driver,
		db:         cfg.Database,
		primaryKey: edgepat.DefaultPrimaryKey,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	ctx := context.Background()

	err = driver.VerifyConnectivity(ctx)
	if err != nil {
		_ = driver.Close(ctx)

		return nil, fmt.Errorf("neo4j: failed to connect: %w", err)
	}

	sessionCfg := neo4j.SessionConfig{
		AccessMode: neo4j.AccessModeWrite,
	}
	if d.db != "" {
		sessionCfg.DatabaseName = d.db
	}

	d.session = driver.NewSession(ctx, sessionCfg)

	d.logger.Debug("connected", zap.String("uri", cfg.URI), zap.String("database", d.db))

	return d, nil
}

// Name returns the database identifier.
func (d *Database) Name() string {
	return edgepat.DatabaseNeo4j
}

// Import writes every pattern in one transaction. The transaction is rolled
// back on the first failure and nothing is written.
func (d *Database) Import(ctx context.Context, list *edgepat.PatternList) (*edgepat.ImportResult, error) {
	tx, err := d.begin(ctx)
	if err != nil {
		return nil, err
	}

	res, err := tx.Import(ctx, list)
	if err != nil {
		rbErr := tx.Rollback(ctx)
		if rbErr != nil {
			d.logger.Warn("rollback failed", zap.Error(rbErr))
		}

		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to commit: %w", err)
	}

	d.logger.Info("import committed",
		zap.Int("patterns", res.Patterns),
		zap.Int("nodes_created", res.NodesCreated),
		zap.Int("edges_created", res.EdgesCreated),
	)

	return res, nil
}

// Execute runs Cypher statements separated by ';' and returns the rows of
// the last one. Nodes and relationships are flattened so that their
// properties are accessible as "alias.property" keys.
func (d *Database) Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return execute(ctx, func(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error) {
		return d.session.Run(ctx, cypher, params)
	}, query, params)
}

// Close releases the database connection.
func (d *Database) Close() error {
	ctx := context.Background()

	if d.session != nil {
		err := d.session.Close(ctx)
		if err != nil {
			return fmt.Errorf("neo4j: failed to close session: %w", err)
		}
	}

	if d.driver != nil {
		err := d.driver.Close(ctx)
		if err != nil {
			return fmt.Errorf("neo4j: failed to close driver: %w", err)
		}
	}

	return nil
}

// Begin starts a new explicit transaction.
func (d *Database) Begin(ctx context.Context) (edgepat.DatabaseTransaction, error) { //nolint:ireturn
	return d.begin(ctx)
}

func (d *Database) begin(ctx context.Context) (*Transaction, error) {
	tx, err := d.session.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("neo4j: failed to begin transaction: %w", err)
	}

	return &Transaction{tx: tx, primaryKey: d.primaryKey, logger: d.logger}, nil
}

// Transaction wraps a Neo4j transaction to implement
// edgepat.DatabaseTransaction.
type Transaction struct {
	tx         neo4j.ExplicitTransaction
	primaryKey string
	logger     *zap.Logger
}

// Import writes every pattern within this transaction and stops at the
// first failure. The caller commits or rolls back.
func (t *Transaction) Import(ctx context.Context, list *edgepat.PatternList) (*edgepat.ImportResult, error) {
	res := &edgepat.ImportResult{}

	for _, p := range list.Patterns {
		err := t.importPattern(ctx, p, res)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (t *Transaction) importPattern(ctx context.Context, p *edgepat.Pattern, res *edgepat.ImportResult) error {
	stmt, err := ImportStatement(p.Element, t.primaryKey)
	if err != nil {
		return fmt.Errorf("neo4j: %s: %w", p.Pos, err)
	}

	counters, err := t.run(ctx, stmt)
	if err != nil {
		return fmt.Errorf("neo4j: %s: %w", p.Pos, err)
	}

	res.Patterns++
	res.StatementsRun++
	res.NodesCreated += counters.NodesCreated()
	res.EdgesCreated += counters.RelationshipsCreated()
	res.NodesMerged += stmt.Merges

	t.logger.Debug("imported pattern",
		zap.Stringer("pos", p.Pos),
		zap.String("edge", string(p.Element.Edge.Label)),
	)

	return nil
}

// run executes stmt and returns the write counters of its summary.
func (t *Transaction) run(ctx context.Context, stmt *Statement) (neo4j.Counters, error) { //nolint:ireturn
	result, err := t.tx.Run(ctx, stmt.Query, stmt.Params)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to consume result: %w", err)
	}

	return summary.Counters(), nil
}

// Execute runs Cypher statements within this transaction.
func (t *Transaction) Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return execute(ctx, t.tx.Run, query, params)
}

// Commit commits the transaction.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

type runFunc func(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error)

func execute(ctx context.Context, run runFunc, query string, params map[string]any) ([]map[string]any, error) {
	var rows []map[string]any

	for _, stmt := range splitStatements(query) {
		result, err := run(ctx, stmt, params)
		if err != nil {
			return nil, fmt.Errorf("neo4j: query execution failed: %w", err)
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("neo4j: failed to collect results: %w", err)
		}

		rows = make([]map[string]any, len(records))
		for i, record := range records {
			rows[i] = flattenRecord(record.Keys, record.Values)
		}
	}

	return rows, nil
}

// flattenRecord turns a record into one row. Nodes, relationships and maps
// are spread into "alias.property" keys; nodes add "alias.labels" and
// relationships "alias.type", both with "alias.elementId".
func flattenRecord(keys []string, values []any) map[string]any {
	row := make(map[string]any, len(keys))

	for i, key := range keys {
		flattenValue(row, key, values[i])
	}

	return row
}

func flattenValue(row map[string]any, key string, value any) {
	var props map[string]any

	switch v := value.(type) {
	case dbtype.Node:
		props = v.Props
		row[key+".labels"] = v.Labels
		row[key+".elementId"] = v.ElementId
	case dbtype.Relationship:
		props = v.Props
		row[key+".type"] = v.Type
		row[key+".elementId"] = v.ElementId
	case map[string]any:
		props = v
	default:
		row[key] = v

		return
	}

	for prop, val := range props {
		row[key+"."+prop] = val
	}
}

// Executor runs queries. Both Database and Transaction implement it.
type Executor interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Counts are the stored nodes and relationships under the labels of a
// pattern list.
type Counts struct {
	Nodes int64
	Edges int64
}

// Count runs CountStatement for list through exec.
func Count(ctx context.Context, exec Executor, list *edgepat.PatternList) (*Counts, error) {
	stmt := CountStatement(list)

	rows, err := exec.Execute(ctx, stmt.Query, stmt.Params)
	if err != nil {
		return nil, err
	}

	if len(rows) != 1 {
		return nil, fmt.Errorf("%w: count returned %d rows", ErrUnexpectedResult, len(rows))
	}

	nodes, nodesOK := rows[0]["nodes"].(int64)
	edges, edgesOK := rows[0]["edges"].(int64)

	if !nodesOK || !edgesOK {
		return nil, fmt.Errorf("%w: count returned %v", ErrUnexpectedResult, rows[0])
	}

	return &Counts{Nodes: nodes, Edges: edges}, nil
}

// Compile-time interface checks.
var (
	_ edgepat.Database              = (*Database)(nil)
	_ edgepat.TransactionalDatabase = (*Database)(nil)
	_ edgepat.DatabaseTransaction   = (*Transaction)(nil)
	_ Executor                      = (*Database)(nil)
	_ Executor                      = (*Transaction)(nil)
)
