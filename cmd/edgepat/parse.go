package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rlch/edgepat"
	"github.com/rlch/edgepat/filter"
)

func (a *app) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Print the parsed patterns",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format (json, yaml)",
				Value:   edgepat.OutputJSON,
			},
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   `keep patterns matching an expression, e.g. 'source.label == "Person"'`,
			},
		},
		Action: a.runParse,
	}
}

func (a *app) runParse(_ context.Context, cmd *cli.Command) error {
	output := cmd.String("output")
	if output != edgepat.OutputJSON && output != edgepat.OutputYAML {
		return fmt.Errorf("%w: %s", ErrUnknownOutput, output)
	}

	list, err := a.loadAll(cmd)
	if err != nil {
		return err
	}

	list, err = a.where(cmd, list)
	if err != nil {
		return err
	}

	return encode(cmd.Root().Writer, output, list)
}

// where applies the --where filter, if any.
func (a *app) where(cmd *cli.Command, list *edgepat.PatternList) (*edgepat.PatternList, error) {
	source := cmd.String("where")
	if source == "" {
		return list, nil
	}

	f, err := filter.Compile(source)
	if err != nil {
		return nil, err
	}

	filtered, err := f.Apply(list)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("filtered patterns",
		zap.String("where", f.String()),
		zap.Int("kept", len(filtered.Patterns)),
		zap.Int("total", len(list.Patterns)),
	)

	return filtered, nil
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, output string, v any) error {
	switch output {
	case edgepat.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(v)
		if err != nil {
			return err
		}

		return enc.Close()

	case edgepat.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownOutput, output)
	}
}
