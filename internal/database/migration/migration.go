package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"riskapi/internal/catalog"
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
		Name: "create_table_risk_factors",
		SQL: `CREATE TABLE IF NOT EXISTS risk_factors (
  name     TEXT             PRIMARY KEY,
  severity DOUBLE PRECISION NOT NULL CHECK (severity >= 1 AND severity <= 10),
  position INT              NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_risk_scores",
		SQL: `CREATE TABLE IF NOT EXISTS risk_scores (
  factor_name TEXT             NOT NULL REFERENCES risk_factors (name) ON DELETE CASCADE,
  subject     TEXT             NOT NULL,
  score       DOUBLE PRECISION NOT NULL,
  PRIMARY KEY (factor_name, subject)
);`,
	},
	{
		Name: "create_table_assessments",
		SQL: `CREATE TABLE IF NOT EXISTS assessments (
  id         UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  subject    TEXT             NOT NULL,
  total      DOUBLE PRECISION NOT NULL,
  details    JSONB            NOT NULL,
  report_key TEXT             NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_assessments_subject",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assessments_subject ON assessments (subject);`,
	},
	{
		Name: "create_index_assessments_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments (created_at);`,
	},
}

// seedSteps generates idempotent INSERTs for the built-in factor catalog so a
// fresh database serves the same table as standalone mode.
func seedSteps() []migrationStep {
	factors := catalog.Factors()

	var fb strings.Builder
	fb.WriteString("INSERT INTO risk_factors (name, severity, position) VALUES\n")
	for i, f := range factors {
		if i > 0 {
			fb.WriteString(",\n")
		}
		fmt.Fprintf(&fb, "  (%s, %s, %d)", sqlString(f.Name), sqlFloat(f.Severity), f.Position)
	}
	fb.WriteString("\nON CONFLICT (name) DO NOTHING;")

	var sb strings.Builder
	sb.WriteString("INSERT INTO risk_scores (factor_name, subject, score) VALUES\n")
	first := true
	for _, f := range factors {
		subjects := make([]string, 0, len(f.Scores))
		for subject := range f.Scores {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			if !first {
				sb.WriteString(",\n")
			}
			first = false
			fmt.Fprintf(&sb, "  (%s, %s, %s)", sqlString(f.Name), sqlString(subject), sqlFloat(f.Scores[subject]))
		}
	}
	sb.WriteString("\nON CONFLICT (factor_name, subject) DO NOTHING;")

	return []migrationStep{
		{Name: "seed_risk_factors", SQL: fb.String()},
		{Name: "seed_risk_scores", SQL: sb.String()},
	}
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// EnsureMigrated checks if the 'risk_factors' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.risk_factors') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range append(steps, seedSteps()...) {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
