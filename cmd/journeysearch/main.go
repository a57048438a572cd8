package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/journeysearch/internal/config"
	"github.com/dharmasatrya/journeysearch/internal/logging"

	_ "time/tzdata"
)

func main() {
	app := &cli.App{
		Name:  "journeysearch",
		Usage: "search public transport journeys",
		Flags: config.Flags(),
		Before: func(c *cli.Context) error {
			cfg := config.FromCLI(c)
			logging.Setup(c.App.ErrWriter, cfg.LogFormat, cfg.Debug)
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}
