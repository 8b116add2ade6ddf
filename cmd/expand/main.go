package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jwebster45206/burrow/pkg/randtext"
)

func main() {
	app := &cli.Command{
		Name:      "burrow-expand",
		Usage:     "Render a dialogue template",
		ArgsUsage: "<template>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "n",
				Aliases: []string{"count"},
				Value:   1,
				Usage:   "number of renderings to print",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for reproducible output",
			},
			&cli.BoolFlag{
				Name:  "lint",
				Usage: "print template issues instead of rendering",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("no template given")
			}
			template := strings.Join(cmd.Args().Slice(), " ")

			if cmd.Bool("lint") {
				return lint(os.Stdout, template)
			}

			var opts []randtext.ExpanderOption
			if cmd.IsSet("seed") {
				opts = append(opts, randtext.WithSeed(cmd.Uint64("seed")))
			}
			return expand(os.Stdout, randtext.New(opts...), template, cmd.Int("n"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func expand(w io.Writer, exp *randtext.Expander, template string, n int) error {
	if n < 1 {
		return fmt.Errorf("-n must be at least 1, got %d", n)
	}
	for range n {
		if _, err := fmt.Fprintln(w, exp.Expand(template)); err != nil {
			return err
		}
	}
	return nil
}

// lint prints one issue per line and fails when any were found.
func lint(w io.Writer, template string) error {
	issues := randtext.Lint(template)
	for _, issue := range issues {
		fmt.Fprintln(w, issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d template issues", len(issues))
	}
	fmt.Fprintln(w, "ok")
	return nil
}
