package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:      "burrow-validate",
		Usage:     "Check level files before they ship",
		ArgsUsage: "<level.json|level.yaml>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat dialogue template warnings as errors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return fmt.Errorf("no level files given")
			}

			v := &LevelValidator{Strict: cmd.Bool("strict"), Out: os.Stdout}
			failed := 0
			for _, f := range files {
				if err := v.ValidateFile(f); err != nil {
					fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d level files failed validation", failed, len(files))
			}

			fmt.Println("All level files are valid!")
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
