package db

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations applies all pending goose migrations using the dialect of db's driver.
func RunMigrations(db *sqlx.DB, log logrus.FieldLogger) error {
	if err := setup(db); err != nil {
		return err
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	if log != nil {
		log.WithField("driver", db.DriverName()).Info("database migrations applied")
	}
	return nil
}

// MigrationStatus prints the applied state of every migration.
func MigrationStatus(db *sqlx.DB) error {
	if err := setup(db); err != nil {
		return err
	}
	return goose.Status(db.DB, "migrations")
}

// RollbackMigration reverts the most recent migration.
func RollbackMigration(db *sqlx.DB) error {
	if err := setup(db); err != nil {
		return err
	}
	return goose.Down(db.DB, "migrations")
}

func setup(db *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(db.DriverName()); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return nil
}
