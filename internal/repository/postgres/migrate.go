package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// RunMigrations brings the sessions schema up to the newest version found
// at sourceURL. A dirty schema is reported rather than forced.
func RunMigrations(dsn string, sourceURL string) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", sourceURL, err)
	}
	defer m.Close()

	if version, dirty, verr := m.Version(); verr == nil && dirty {
		return fmt.Errorf("sessions schema is dirty at version %d", version)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug().Str("source", sourceURL).Msg("Sessions schema already current")
		return nil
	case err != nil:
		return fmt.Errorf("apply session migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info().Uint("version", version).Msg("Sessions schema migrated")
	return nil
}
