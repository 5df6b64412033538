package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"salon/config"
	"salon/infras/postgres"
	"slices"
	"sort"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// migrations maps a command to what it does to the schema.
var migrations = map[string]func(*migrate.Migrate) error{
	"up":      (*migrate.Migrate).Up,
	"down":    func(m *migrate.Migrate) error { return m.Steps(-1) },
	"step-up": func(m *migrate.Migrate) error { return m.Steps(1) },
	"drop":    (*migrate.Migrate).Down,
}

// Actions lists the accepted migration commands.
func Actions() []string {
	actions := make([]string, 0, len(migrations))
	for action := range migrations {
		actions = append(actions, action)
	}

	sort.Strings(actions)

	return actions
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	var extra url.Values
	if cfg.DB.Postgres.MigrationTable != "" {
		extra = url.Values{"x-migrations-table": {cfg.DB.Postgres.MigrationTable}}
	}

	mig, err := migrate.New(cfg.DB.Postgres.MigrationPath, postgres.DSN(cfg, cfg.DB.Postgres.Write, extra))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies one migration command against the write database.
func Runner(cfg *config.Config, action string) error {
	run, ok := migrations[action]
	if !ok {
		return fmt.Errorf("unknown migration action %q, use one of %v", action, Actions())
	}

	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, "up")
}

// IsAction reports whether action is a known migration command.
func IsAction(action string) bool {
	return slices.Contains(Actions(), action)
}
