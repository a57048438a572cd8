package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/journeysearch/internal/config"
	"github.com/dharmasatrya/journeysearch/internal/handler"
	"github.com/dharmasatrya/journeysearch/internal/logging"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the journey search web api",
		Action: func(c *cli.Context) error {
			cfg := config.FromCLI(c)

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			service, journeyCache, err := initializeService(cfg, loc, true)
			if err != nil {
				return err
			}
			defer journeyCache.Close()

			e := echo.New()
			e.HideBanner = true
			e.Use(logging.EchoLogger())
			e.Use(middleware.Recover())
			e.Use(middleware.CORS())
			e.Use(middleware.RequestID())

			v := validation.New(validation.WithLocation(loc))
			handler.Register(e, handler.NewSearchHandler(service, v), handler.NewFormHandler(v))

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				log.Info().Str("port", cfg.Port).Str("timezone", loc.String()).Msg("Starting journey search server")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("Server stopped")
					stop()
				}
			}()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}
