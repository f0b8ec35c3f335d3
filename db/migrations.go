// Package db embeds the SQL migration files applied at startup.
package db

import "embed"

// MigrationsFS holds the goose migration files.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
