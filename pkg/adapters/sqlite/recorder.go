package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/spotcheck/pkg/domain"
)

const questionnaireImageID = -1

// imageID keeps numeric step ids as integers. Ids from other catalogs (YAML) are
// stored as text, which SQLite accepts in an INTEGER column.
func imageID(stepID string) any {
	if n, err := strconv.ParseInt(stepID, 10, 64); err == nil {
		return n
	}
	return stepID
}

// RecordClick appends one click row.
func (d *DB) RecordClick(ctx context.Context, sessionID, stepID string, hit bool, x, y int) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO navigation_test_results
			(session_id, image_id, clicked_inside_hotspot, x, y, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, imageID(stepID), hit, x, y, d.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}
	return nil
}

// RecordQuestionnaire appends the questionnaire row under image_id -1.
// A session keeps its first questionnaire; a retried submission is a no-op.
func (d *DB) RecordQuestionnaire(ctx context.Context, sessionID string, q domain.Questionnaire) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO navigation_test_results
			(session_id, image_id, clicked_inside_hotspot, x, y, timestamp,
			 difficulty, unclear_step, expected_but_missing)
		SELECT ?, ?, 0, 0, 0, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM navigation_test_results WHERE session_id = ? AND image_id = ?
		)`,
		sessionID, questionnaireImageID, d.now().UTC(),
		q.Difficulty, q.UnclearStep, q.ExpectedMissing,
		sessionID, questionnaireImageID)
	if err != nil {
		return fmt.Errorf("failed to insert questionnaire: %w", err)
	}
	return nil
}

// ListResults returns rows oldest first. An empty sessionID lists all sessions.
func (d *DB) ListResults(ctx context.Context, sessionID string) ([]domain.Result, error) {
	query := `
		SELECT session_id, image_id, clicked_inside_hotspot, x, y, timestamp,
		       difficulty, unclear_step, expected_but_missing
		FROM navigation_test_results`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []domain.Result{}
	for rows.Next() {
		var (
			res             domain.Result
			session         sql.NullString
			stepID          string
			ts              time.Time
			difficulty      sql.NullInt64
			unclear, missed sql.NullString
		)
		if err := rows.Scan(&session, &stepID, &res.Hit, &res.X, &res.Y, &ts,
			&difficulty, &unclear, &missed); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		res.SessionID = session.String
		res.Timestamp = ts
		res.StepID = stepID
		if stepID == domain.QuestionnaireStepID {
			res.Kind = domain.ResultQuestionnaire
			res.Difficulty = int(difficulty.Int64)
			res.UnclearStep = unclear.String
			res.ExpectedMissing = missed.String
		} else {
			res.Kind = domain.ResultClick
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}
