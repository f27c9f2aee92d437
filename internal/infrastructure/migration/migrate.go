package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for PostgreSQL driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator подмножество migrate.Migrate, нужное для Up
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine создает мигратор по адресам источника и базы
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	path        string
	databaseURI string
	engine      MigrationEngine
}

// NewMigration мигратор для каталога path. Без engine используется DefaultEngine.
func NewMigration(path, databaseURI string, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		path:        path,
		databaseURI: databaseURI,
		engine:      engine,
	}
}

// DefaultEngine мигратор golang-migrate
func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Up применяет все новые миграции. Отсутствие изменений не считается ошибкой.
func (mg *Migration) Up() (err error) {
	m, err := mg.engine("file://"+mg.path, mg.databaseURI)
	if err != nil {
		return err
	}
	defer func() {
		err = closeMigrator(m, err)
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w; migration up error", err)
	}
	return nil
}

// closeMigrator закрывает источник и базу, дописывая их ошибки к err
func closeMigrator(m Migrator, err error) error {
	serr, dberr := m.Close()
	if serr != nil {
		err = joinErr(err, "migration source error", serr)
	}
	if dberr != nil {
		err = joinErr(err, "migration database error", dberr)
	}
	return err
}

func joinErr(err error, label string, cause error) error {
	if err == nil {
		return cause
	}
	return fmt.Errorf("%w; %s: %v", err, label, cause)
}
