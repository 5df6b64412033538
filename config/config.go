package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Booking struct {
		// SweepSchedule is a cron spec ("@every 1m", "*/5 * * * *"). Empty disables the
		// periodic sweep; reads still sweep lazily.
		SweepSchedule string `envconfig:"SWEEP_SCHEDULE"`
		Events        struct {
			Enable bool   `envconfig:"ENABLE"`
			Topic  string `envconfig:"TOPIC" default:"salon.reservations"`
		} `envconfig:"EVENTS"`
	} `envconfig:"BOOKING"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
		Issuer       string `envconfig:"ISSUER"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE"`
			MigrationPath  string           `envconfig:"MIGRATION_PATH" default:"file://migrations/postgres"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			MaxOpenConns   int              `envconfig:"MAX_OPEN_CONNS" default:"10"`
			MaxIdleConns   int              `envconfig:"MAX_IDLE_CONNS" default:"10"`
			ConnMaxIdle    int              `envconfig:"CONN_MAX_IDLE_SECONDS" default:"300"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("processing environment: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}

// PostgresEndpoint is one side of the read/write split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}
