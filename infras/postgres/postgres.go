package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"salon/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Connection is the read/write pair every repository is built on. Transactions always run on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}

// DSN renders a postgres URL for endpoint. Credentials are escaped; the session timezone is
// set so DATE and TIME columns are read in the same zone the booking rules use.
func DSN(cfg *config.Config, endpoint config.PostgresEndpoint, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", endpoint.SSLMode)

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(cfg *config.Config, name string, endpoint config.PostgresEndpoint) *sqlx.DB {
	pg := cfg.DB.Postgres
	dsn := DSN(cfg, endpoint, nil)

	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", pg.Prefix+endpoint.Name).
		Logger()

	attempts := max(pg.MaxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxIdleTime(time.Duration(pg.ConnMaxIdle) * time.Second)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Int("attempts", attempts).Msg(fmt.Sprintf("Giving up connecting to %s database", name))

	return nil
}
