package postgres_test

import (
	"net/url"
	"salon/config"
	"salon/infras/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"

	endpoint := config.PostgresEndpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "salon",
		Password: "p@ss:w/rd",
		Name:     "salon",
		Timezone: "Europe/Moscow",
		SSLMode:  "disable",
	}

	dsn, err := url.Parse(postgres.DSN(cfg, endpoint, url.Values{"x-migrations-table": {"schema_migrations"}}))
	require.NoError(t, err)

	password, _ := dsn.User.Password()

	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "db.internal:5432", dsn.Host)
	assert.Equal(t, "/test_salon", dsn.Path)
	assert.Equal(t, "p@ss:w/rd", password)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
	assert.Equal(t, "Europe/Moscow", dsn.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", dsn.Query().Get("x-migrations-table"))
}
