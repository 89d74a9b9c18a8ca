// Command boardctl validates board configurations and renders boards from
// the terminal.
//
//	boardctl validate --dir configs
//	boardctl render --config configs/classic.json --script moves.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree. All report output goes to out.
func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "boardctl",
		Usage: "inspect tile board configurations",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate board configuration files",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: "configs",
						Usage: "directory scanned when no files are given",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := collectConfigFiles(cmd.String("dir"), cmd.Args().Slice())
					if err != nil {
						return err
					}
					if len(files) == 0 {
						return fmt.Errorf("no configuration files found in %s", cmd.String("dir"))
					}
					if !validateFiles(out, files) {
						return fmt.Errorf("some configurations have errors")
					}
					return nil
				},
			},
			{
				Name:  "render",
				Usage: "build a board from a config, optionally apply a script, and print it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Usage:    "board configuration file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "script",
						Usage: "YAML list of place/remove/action/toggle/observe steps",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return render(out, cmd.String("config"), cmd.String("script"))
				},
			},
		},
	}
}
