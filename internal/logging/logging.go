package logging

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger. Anything but the "json" format gets
// the human readable console writer.
func Setup(out io.Writer, format string, debug bool) {
	if out == nil {
		out = os.Stdout
	}

	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	if debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}

// EchoLogger logs one line per request; 4xx at warn and 5xx at error.
func EchoLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			startTime := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			msg := "HTTP Request"
			if err != nil {
				msg = err.Error()
			}

			req := c.Request()
			res := c.Response()
			code := res.Status

			requestLogger := log.With().
				Int("status", code).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("ip", c.RealIP()).
				Str("latency", time.Since(startTime).String()).
				Str("user-agent", req.UserAgent()).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Logger()

			switch {
			case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
				requestLogger.Warn().Msg(msg)
			case code >= http.StatusInternalServerError:
				requestLogger.Error().Msg(msg)
			default:
				requestLogger.Info().Msg(msg)
			}

			return nil
		}
	}
}
