package report

import (
	"context"
	"fmt"

	"quizdash/internal/repository/postgres"
)

// schemaTemplate creates the templates table and the indexes that back the
// naming and default-template rules. %[1]s is the prefixed table name.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name        VARCHAR(255) NOT NULL,
	content     TEXT NOT NULL DEFAULT '[]',
	created_by  TEXT,
	quiz_id     TEXT,
	is_default  BOOLEAN NOT NULL DEFAULT FALSE,
	version     INTEGER NOT NULL DEFAULT 1 CHECK (version >= 1),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_owner_name_key
	ON %[1]s (COALESCE(created_by, ''), LOWER(name));

CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_one_default_key
	ON %[1]s (COALESCE(quiz_id, ''))
	WHERE is_default;

CREATE INDEX IF NOT EXISTS %[1]s_created_by_idx
	ON %[1]s (created_by);
`

// Schema returns the DDL for the templates table.
func Schema(tables *postgres.TableNames) string {
	return fmt.Sprintf(schemaTemplate, tables.ReportTemplates)
}

// DropSchema returns the DDL that removes the templates table.
func DropSchema(tables *postgres.TableNames) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", tables.ReportTemplates)
}

// Migrate creates the templates table if needed.
func Migrate(ctx context.Context, config *postgres.RepositoryConfig) error {
	if _, err := config.Pool.Exec(ctx, Schema(config.Tables)); err != nil {
		return fmt.Errorf("create %s: %w", config.Tables.ReportTemplates, err)
	}
	return nil
}
