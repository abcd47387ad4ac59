package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/rlch/edgepat"
	"github.com/rlch/edgepat/schema"
)

func (a *app) schemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "Print the node and relationship tables used by the patterns",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (ddl, yaml)",
				Value:   edgepat.OutputDDL,
			},
			&cli.StringFlag{
				Name:  "primary-key",
				Usage: "node primary key property (overrides config)",
			},
		},
		Action: a.runSchema,
	}
}

func (a *app) runSchema(_ context.Context, cmd *cli.Command) error {
	output := cmd.String("output")
	if output != edgepat.OutputDDL && output != edgepat.OutputYAML {
		return fmt.Errorf("%w: %s", ErrUnknownOutput, output)
	}

	list, err := a.loadAll(cmd)
	if err != nil {
		return err
	}

	primaryKey := cmd.String("primary-key")
	if primaryKey == "" {
		primaryKey = a.cfg.PrimaryKey()
	}

	s, err := schema.Extract(list, schema.WithPrimaryKey(primaryKey))
	if err != nil {
		return err
	}

	if output == edgepat.OutputYAML {
		return encode(cmd.Root().Writer, output, s)
	}

	_, err = io.WriteString(cmd.Root().Writer, s.DDL())

	return err
}

func (a *app) createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Print a CREATE statement for every pattern",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "keep patterns matching an expression",
			},
		},
		Action: a.runCreate,
	}
}

func (a *app) runCreate(_ context.Context, cmd *cli.Command) error {
	list, err := a.loadAll(cmd)
	if err != nil {
		return err
	}

	list, err = a.where(cmd, list)
	if err != nil {
		return err
	}

	statements, err := schema.CreateStatements(list)
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.Root().Writer, statements)

	return err
}
