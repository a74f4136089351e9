package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  name          TEXT        NOT NULL,
  surname       TEXT        NOT NULL,
  phone         TEXT,
  role          TEXT        NOT NULL CHECK (role IN ('PLANNER', 'DEVELOPER', 'VISITOR', 'RESIDENT')),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`,
	},
	{
		Name: "create_table_stakeholders",
		SQL: `CREATE TABLE IF NOT EXISTS stakeholders (
  id   UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name TEXT NOT NULL
);`,
	},
	{
		Name: "create_index_stakeholders_name",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_stakeholders_name ON stakeholders (lower(name));`,
	},
	{
		Name: "create_table_document_types",
		SQL: `CREATE TABLE IF NOT EXISTS document_types (
  id   UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name TEXT NOT NULL
);`,
	},
	{
		Name: "create_index_document_types_name",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_document_types_name ON document_types (lower(name));`,
	},
	{
		Name: "create_table_coordinates",
		SQL: `CREATE TABLE IF NOT EXISTS coordinates (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  type       TEXT        NOT NULL CHECK (type IN ('Point', 'Polygon')),
  positions  JSONB       NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_media",
		SQL: `CREATE TABLE IF NOT EXISTS media (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename   TEXT        NOT NULL,
  url        TEXT        NOT NULL UNIQUE,
  mime_type  TEXT        NOT NULL,
  media_type TEXT        NOT NULL,
  size       BIGINT      NOT NULL CHECK (size >= 0),
  pages      INTEGER     CHECK (pages >= 0),
  owner_id   UUID        REFERENCES users (id),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title               TEXT        NOT NULL,
  scale               TEXT        NOT NULL,
  architectural_scale TEXT,
  type_id             UUID        NOT NULL REFERENCES document_types (id),
  issuance_date       TEXT        NOT NULL,
  date_from           DATE        NOT NULL,
  date_to             DATE        NOT NULL,
  language            TEXT,
  summary             TEXT,
  coordinate_id       UUID        REFERENCES coordinates (id) ON DELETE RESTRICT,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_dates",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_dates ON documents (date_from, date_to);`,
	},
	{
		Name: "create_index_documents_coordinate_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_coordinate_id ON documents (coordinate_id);`,
	},
	{
		Name: "create_table_document_stakeholders",
		SQL: `CREATE TABLE IF NOT EXISTS document_stakeholders (
  document_id    UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  stakeholder_id UUID NOT NULL REFERENCES stakeholders (id),
  PRIMARY KEY (document_id, stakeholder_id)
);`,
	},
	{
		Name: "create_table_document_connections",
		SQL: `CREATE TABLE IF NOT EXISTS document_connections (
  document_id UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  target_id   UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  type        TEXT NOT NULL CHECK (type IN ('DIRECT', 'COLLATERAL', 'PROJECTION', 'UPDATE')),
  PRIMARY KEY (document_id, target_id, type),
  CHECK (document_id <> target_id)
);`,
	},
	{
		Name: "create_index_document_connections_target",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_connections_target ON document_connections (target_id);`,
	},
	{
		Name: "create_table_document_media",
		SQL: `CREATE TABLE IF NOT EXISTS document_media (
  document_id UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  media_id    UUID NOT NULL REFERENCES media (id),
  PRIMARY KEY (document_id, media_id)
);`,
	},
}

// EnsureMigrated creates the schema when the documents table is missing.
// All steps run in one transaction, so a failed run leaves no partial schema
// behind and the next start retries from scratch.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err))
		return fmt.Errorf("begin migration: %w", err)
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			_ = tx.Rollback()
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	if err := tx.Commit(); err != nil {
		log.Error("db_migration_failed", zap.String("status", "error"), zap.Error(err))
		return fmt.Errorf("commit migration: %w", err)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
