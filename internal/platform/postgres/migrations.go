package postgres

import "embed"

// MigrationsFS embeds the SQL migration files so the binary can migrate the
// schema without the source tree present.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migration files inside MigrationsFS.
const MigrationsDir = "migrations"
