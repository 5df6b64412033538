package logger

import (
	"io"
	"os"
	"salon/config"
	"salon/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger switches the global logger to a console writer in development and to
// plain JSON lines in production.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(Output(cfg, os.Stdout)).With().Timestamp().Str("app", cfg.App.Name).Logger()
	log.Trace().Msg("Zerolog initialized.")
}

func Output(cfg *config.Config, out io.Writer) io.Writer {
	if cfg.Server.Env == constant.ServerEnvProduction {
		return out
	}

	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
