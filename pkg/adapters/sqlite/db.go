// Package sqlite stores the step catalog and the result log in a SQLite database.
//
// The tables keep the column layout of the original navigation test:
// navigation_test_images holds the steps and navigation_test_results the log,
// with image_id -1 marking questionnaire rows.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS navigation_test_images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	image_name TEXT NOT NULL,
	instruction TEXT NOT NULL,
	hotspot_x1 INTEGER NOT NULL,
	hotspot_y1 INTEGER NOT NULL,
	hotspot_x2 INTEGER NOT NULL,
	hotspot_y2 INTEGER NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS navigation_test_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT,
	image_id INTEGER NOT NULL,
	clicked_inside_hotspot INTEGER NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	difficulty INTEGER,
	unclear_step TEXT,
	expected_but_missing TEXT
);

CREATE INDEX IF NOT EXISTS idx_results_session ON navigation_test_results(session_id);
`

// DB implements ports.CatalogAdmin, ports.ResultRecorder and ports.ResultReader.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the timestamp source for result rows.
func WithClock(now func() time.Time) Option {
	return func(d *DB) {
		if now != nil {
			d.now = now
		}
	}
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; SQLite would otherwise answer SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return d.bootstrapPositions(ctx)
}

// bootstrapPositions numbers steps by insertion time when no step has a position yet.
func (d *DB) bootstrapPositions(ctx context.Context) error {
	var total, unpositioned int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN position = 0 THEN 1 ELSE 0 END), 0) FROM navigation_test_images`,
	).Scan(&total, &unpositioned)
	if err != nil {
		return fmt.Errorf("failed to inspect positions: %w", err)
	}
	if total == 0 || unpositioned != total {
		return nil
	}

	_, err = d.db.ExecContext(ctx, `
		UPDATE navigation_test_images
		SET position = r.pos
		FROM (SELECT id, ROW_NUMBER() OVER (ORDER BY timestamp, id) AS pos FROM navigation_test_images) AS r
		WHERE navigation_test_images.id = r.id`)
	if err != nil {
		return fmt.Errorf("failed to assign positions: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
