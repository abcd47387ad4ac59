package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/edgepat"
	"github.com/rlch/edgepat/databases/neo4j"
)

// Load command errors.
var (
	ErrNoConnectionURI = errors.New("no connection URI specified (use --uri or neo4j.uri in .edgepat.yaml)")
	ErrNoTransactions  = errors.New("database does not support transactions")
)

func (a *app) loadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Import patterns into Neo4j",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "uri",
				Usage:   "database connection URI",
				Sources: cli.EnvVars("EDGEPAT_URI"),
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "database username",
				Sources: cli.EnvVars("EDGEPAT_USER"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "database password",
				Sources: cli.EnvVars("EDGEPAT_PASS"),
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "database name (default: server default)",
			},
			&cli.StringFlag{
				Name:  "primary-key",
				Usage: "node property used to merge nodes (overrides config)",
			},
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "import only patterns matching an expression",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "count the stored nodes and edges under the imported labels after the import",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "import and count inside a transaction, then roll it back",
			},
		},
		Action: a.runLoad,
	}
}

// loadConfigFor merges the connection flags over the config file.
func (a *app) loadConfigFor(cmd *cli.Command) (*edgepat.Config, error) {
	cfg := *a.cfg

	neo4jCfg := &edgepat.Neo4jConfig{}
	if a.cfg.Neo4j != nil {
		*neo4jCfg = *a.cfg.Neo4j
	}

	if uri := cmd.String("uri"); uri != "" {
		neo4jCfg.URI = uri
	}

	if username := cmd.String("username"); username != "" {
		neo4jCfg.Username = username
	}

	if password := cmd.String("password"); password != "" {
		neo4jCfg.Password = password
	}

	if database := cmd.String("database"); database != "" {
		neo4jCfg.Database = database
	}

	if primaryKey := cmd.String("primary-key"); primaryKey != "" {
		cfg.Schema.PrimaryKey = primaryKey
	}

	if neo4jCfg.URI == "" {
		return nil, ErrNoConnectionURI
	}

	cfg.Neo4j = neo4jCfg

	return &cfg, nil
}

func (a *app) runLoad(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.loadConfigFor(cmd)
	if err != nil {
		return err
	}

	list, err := a.loadAll(cmd)
	if err != nil {
		return err
	}

	list, err = a.where(cmd, list)
	if err != nil {
		return err
	}

	db, err := edgepat.NewDatabase(edgepat.DatabaseNeo4j, cfg)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if cmd.Bool("dry-run") {
		return a.dryRun(ctx, cmd, db, list)
	}

	result, err := db.Import(ctx, list)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	a.logger.Info("import finished",
		zap.String("database", db.Name()),
		zap.Int("patterns", result.Patterns),
	)

	out := cmd.Root().Writer

	_, err = fmt.Fprintf(out, "imported %d patterns: %d nodes created, %d nodes merged, %d edges created\n",
		result.Patterns, result.NodesCreated, result.NodesMerged, result.EdgesCreated)
	if err != nil || !cmd.Bool("verify") {
		return err
	}

	counts, err := neo4j.Count(ctx, db, list)
	if err != nil {
		return fmt.Errorf("verifying: %w", err)
	}

	return printCounts(out, counts)
}

// dryRun imports list inside a transaction, counts what it would store and
// rolls the transaction back.
func (a *app) dryRun(ctx context.Context, cmd *cli.Command, db edgepat.Database, list *edgepat.PatternList) error {
	tdb, ok := db.(edgepat.TransactionalDatabase)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTransactions, db.Name())
	}

	tx, err := tdb.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		rbErr := tx.Rollback(ctx)
		if rbErr != nil {
			a.logger.Warn("rollback failed", zap.Error(rbErr))
		}
	}()

	result, err := tx.Import(ctx, list)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	counts, err := neo4j.Count(ctx, tx, list)
	if err != nil {
		return fmt.Errorf("verifying: %w", err)
	}

	out := cmd.Root().Writer

	_, err = fmt.Fprintf(out, "dry run, rolled back %d patterns: %d nodes created, %d nodes merged, %d edges created\n",
		result.Patterns, result.NodesCreated, result.NodesMerged, result.EdgesCreated)
	if err != nil {
		return err
	}

	return printCounts(out, counts)
}

func printCounts(w io.Writer, counts *neo4j.Counts) error {
	_, err := fmt.Fprintf(w, "stored under the imported labels: %d nodes, %d edges\n", counts.Nodes, counts.Edges)

	return err
}
