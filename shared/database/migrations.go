package database

import "embed"

// MigrationsFS holds the PostgreSQL schema migrations applied by pkg/migration.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsPath is the directory inside MigrationsFS that contains the migration files.
const MigrationsPath = "migrations"
