package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	schemasql "github.com/mcawcutt/socialspark-scheduler/internal/store/sql"
)

// ApplySchema runs the embedded schema files in lexical order. Statements are
// idempotent, so re-running on boot is safe.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	entries, err := schemasql.Content.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := schemasql.Content.ReadFile("schema/" + name)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(raw)); err != nil {
			return fmt.Errorf("apply schema file %s: %w", name, err)
		}
	}

	return nil
}
