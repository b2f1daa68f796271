package database

import (
	"context"
	"embed"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationDir = "migrations"

func configureGoose() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetTableName("schema_migrations")
	return goose.SetDialect("postgres")
}

func MigrateUp(ctx context.Context, db *gorm.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, migrationDir)
}

func MigrateDown(ctx context.Context, db *gorm.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return goose.DownContext(ctx, sqlDB, migrationDir)
}

func MigrateStatus(ctx context.Context, db *gorm.DB) error {
	if err := configureGoose(); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, sqlDB, migrationDir)
}
