package logger_test

import (
	"bytes"
	"errors"
	"salon/config"
	"salon/shared/constant"
	"salon/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func restore(t *testing.T) {
	t.Helper()

	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()
	originalTimeFormat := zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
		zerolog.TimeFieldFormat = originalTimeFormat
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	logger.InitLogger(cfg)

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	assert.Equal(t, &buf, logger.Output(cfg, &buf))

	cfg.Server.Env = constant.ServerEnvDevelopment
	_, isConsole := logger.Output(cfg, &buf).(zerolog.ConsoleWriter)
	assert.True(t, isConsole)
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("test error"))

	assert.Contains(t, buf.String(), "test error")
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		logLevel      string
		expectedLevel zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"invalid_level", zerolog.TraceLevel},
		// ParseLevel("") returns NoLevel with no error
		{"", zerolog.NoLevel},
	}

	for _, tt := range tests {
		t.Run("level "+tt.logLevel, func(t *testing.T) {
			restore(t)

			log.Logger = log.Output(&bytes.Buffer{})

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel
			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expectedLevel, zerolog.GlobalLevel())
		})
	}
}
