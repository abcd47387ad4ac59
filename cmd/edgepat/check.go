package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/edgepat/report"
)

func (a *app) checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Parse files and report errors",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "diagnostic format (text, json)",
				Value:   "text",
			},
		},
		Action: a.runCheck,
	}
}

func (a *app) runCheck(_ context.Context, cmd *cli.Command) error {
	inputs, err := a.inputs(cmd)
	if err != nil {
		return err
	}

	formatter := report.NewFormatter(cmd.String("format"), cmd.Root().Writer)

	var result report.Result

	for _, in := range inputs {
		result.Files++

		f, err := a.load(cmd, in)
		if err == nil {
			a.logger.Debug("checked", zap.String("path", in.name()), zap.Int("patterns", len(f.Patterns.Patterns)))
			continue
		}

		result.Failed++

		var source []byte
		if loadErr := asLoadError(err); loadErr != nil {
			source = loadErr.Source
		}

		err = formatter.Format(report.FromError(in.name(), source, err))
		if err != nil {
			return err
		}
	}

	err = formatter.Summary(result)
	if err != nil {
		return err
	}

	if !result.Ok() {
		return cli.Exit("", 1)
	}

	return nil
}
