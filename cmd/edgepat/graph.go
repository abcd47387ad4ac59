package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/edgepat/graph"
)

func (a *app) graphCommand() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Usage:     "Draw the patterns as a Graphviz graph",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file; the extension selects the format, .dot writes the source and - prints it",
				Value:   "graph.svg",
			},
			&cli.StringFlag{
				Name:    "graph-name",
				Aliases: []string{"g"},
				Usage:   "name of the digraph (default: G)",
			},
			&cli.BoolFlag{
				Name:    "reverse",
				Aliases: []string{"r"},
				Usage:   "draw edges from target to source",
			},
			&cli.StringFlag{
				Name:    "layout",
				Aliases: []string{"l"},
				Usage:   "graphviz layout engine (dot, neato, fdp, sfdp, circo, twopi, nop, nop2, osage)",
			},
			&cli.StringFlag{
				Name:  "primary-key",
				Usage: "node property shown after the label (overrides config)",
			},
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "draw only patterns matching an expression",
			},
		},
		Action: a.runGraph,
	}
}

// graphConfig layers the config file and then the flags over the defaults.
func (a *app) graphConfig(cmd *cli.Command) (graph.Config, error) {
	cfg := graph.DefaultConfig()
	file := a.cfg.Graph

	for _, set := range []struct {
		dst *string
		val string
	}{
		{&cfg.Name, file.Name},
		{&cfg.Name, cmd.String("graph-name")},
		{&cfg.Shape, file.Shape},
		{&cfg.Arrowhead, file.Arrowhead},
	} {
		if set.val != "" {
			*set.dst = set.val
		}
	}

	layout := cmd.String("layout")
	if layout == "" {
		layout = file.Layout
	}

	if layout != "" {
		l, err := graph.ParseLayout(layout)
		if err != nil {
			return cfg, err
		}

		cfg.Layout = l
	}

	return cfg, nil
}

func (a *app) runGraph(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.graphConfig(cmd)
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

	primaryKey := cmd.String("primary-key")
	if primaryKey == "" {
		primaryKey = a.cfg.PrimaryKey()
	}

	g := graph.Build(list,
		graph.WithPrimaryKey(primaryKey),
		graph.WithReverse(cmd.Bool("reverse")),
	)

	output := cmd.String("output")
	if output == "-" {
		return graph.Write(cmd.Root().Writer, cfg, g)
	}

	compiler := &graph.Compiler{Logger: a.logger}

	err = compiler.Render(ctx, cfg, g, output)
	if err != nil {
		return err
	}

	a.logger.Debug("graph written",
		zap.String("output", output),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
	)

	_, err = fmt.Fprintf(cmd.Root().Writer, "wrote %s\n", output)

	return err
}
