package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/journeysearch/internal/config"
	"github.com/dharmasatrya/journeysearch/internal/session"
	"github.com/dharmasatrya/journeysearch/internal/shell"
	"github.com/dharmasatrya/journeysearch/internal/urlstate"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "open a search link and print the matching journeys",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "search link or query string, e.g. 'origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2'",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg := config.FromCLI(c)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			values, err := urlstate.Values(c.String("url"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid search link: %v", err), 2)
			}

			service, journeyCache, err := initializeService(cfg, loc, false)
			if err != nil {
				return err
			}
			defer journeyCache.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			v := validation.New(validation.WithLocation(loc))
			terminal := shell.NewTerminal(c.App.Writer, loc)
			s := session.New(values, v, service, terminal)
			defer s.Close()

			submitted, err := s.Mount(ctx)
			if !submitted {
				err = s.Submit(ctx)
				if errors.Is(err, session.ErrInvalidForm) {
					terminal.RenderFieldErrors(v.Errors(s.State().Raw))
					return cli.Exit("the search link is incomplete", 2)
				}
			}
			if err != nil {
				return cli.Exit("", 1)
			}

			fmt.Fprintf(c.App.Writer, "\nShare this search: ?%s\n", s.Query())
			return nil
		},
	}
}
