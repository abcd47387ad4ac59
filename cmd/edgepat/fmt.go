package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/edgepat"
)

func (a *app) fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Print files in canonical form",
		ArgsUsage: "[files, directories or globs...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "rewrite files in place instead of printing them",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "list files that are not formatted and exit 1 if there are any",
			},
		},
		Action: a.runFmt,
	}
}

func (a *app) runFmt(_ context.Context, cmd *cli.Command) error {
	inputs, err := a.inputs(cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	write := cmd.Bool("write")
	check := cmd.Bool("check")

	var unformatted int

	for _, in := range inputs {
		f, err := a.load(cmd, in)
		if err != nil {
			return a.fail(cmd, in, err)
		}

		formatted := edgepat.Format(f.Patterns)
		changed := formatted != string(f.Source)

		switch {
		case check:
			if changed {
				unformatted++

				fmt.Fprintln(out, in.name())
			}

		case write && !in.stdin:
			if !changed {
				continue
			}

			err := writeFile(in.path, formatted)
			if err != nil {
				return err
			}

			a.logger.Info("formatted", zap.String("path", in.path))

		default:
			_, err := io.WriteString(out, formatted)
			if err != nil {
				return err
			}
		}
	}

	if unformatted > 0 {
		a.logger.Debug(ErrNotFormatted.Error(), zap.Int("files", unformatted))

		return cli.Exit("", 1)
	}

	return nil
}

// writeFile replaces the content of path, keeping its permissions.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	err = os.WriteFile(path, []byte(content), info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
