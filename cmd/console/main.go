package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/jwebster45206/burrow/pkg/randtext"
)

func main() {
	app := &cli.Command{
		Name:  "burrow-console",
		Usage: "Interactive playground for dialogue templates",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for reproducible renders",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "template to start with",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var opts []randtext.ExpanderOption
			if cmd.IsSet("seed") {
				opts = append(opts, randtext.WithSeed(cmd.Uint64("seed")))
			}

			ui := NewPlayground(randtext.New(opts...), clipboard.WriteAll)
			if t := cmd.String("template"); t != "" {
				ui.input.SetValue(t)
			}

			p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := p.Run()
			return err
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
