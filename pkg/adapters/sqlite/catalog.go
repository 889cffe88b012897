package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/ports"
)

// ListSteps returns every step ordered by position.
func (d *DB) ListSteps(ctx context.Context) ([]domain.Step, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, image_name, instruction, hotspot_x1, hotspot_y1, hotspot_x2, hotspot_y2
		FROM navigation_test_images
		ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	steps := []domain.Step{}
	for rows.Next() {
		var (
			id   int64
			step domain.Step
			h    = &step.Hotspot
		)
		if err := rows.Scan(&id, &step.ImageRef, &step.Instruction, &h.X1, &h.Y1, &h.X2, &h.Y2); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		step.ID = strconv.FormatInt(id, 10)
		step.Order = len(steps) + 1
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read steps: %w", err)
	}
	return steps, nil
}

// AddStep appends a step at max(position)+1.
func (d *DB) AddStep(ctx context.Context, in ports.NewStep) (domain.Step, error) {
	if err := domain.ValidateImageRef(in.ImageRef); err != nil {
		return domain.Step{}, err
	}

	var step domain.Step
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		var maxPos int
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), 0) FROM navigation_test_images`).Scan(&maxPos); err != nil {
			return fmt.Errorf("failed to determine position: %w", err)
		}

		h := in.Hotspot
		res, err := tx.ExecContext(ctx, `
			INSERT INTO navigation_test_images
				(image_name, instruction, hotspot_x1, hotspot_y1, hotspot_x2, hotspot_y2, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			in.ImageRef, in.Instruction, h.X1, h.Y1, h.X2, h.Y2, maxPos+1)
		if err != nil {
			return fmt.Errorf("failed to insert step: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM navigation_test_images`).Scan(&count); err != nil {
			return err
		}

		step = domain.Step{
			ID:          strconv.FormatInt(id, 10),
			Order:       count,
			Instruction: in.Instruction,
			ImageRef:    in.ImageRef,
			Hotspot:     in.Hotspot,
		}
		return nil
	})
	return step, err
}

// DeleteStep removes a step and shifts later positions down by one.
func (d *DB) DeleteStep(ctx context.Context, id string) error {
	rowID, err := parseStepID(id)
	if err != nil {
		return err
	}

	return d.inTx(ctx, func(tx *sql.Tx) error {
		var pos int
		err := tx.QueryRowContext(ctx,
			`SELECT position FROM navigation_test_images WHERE id = ?`, rowID).Scan(&pos)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", domain.ErrStepNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to load step: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM navigation_test_images WHERE id = ?`, rowID); err != nil {
			return fmt.Errorf("failed to delete step: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE navigation_test_images SET position = position - 1 WHERE position > ?`, pos); err != nil {
			return fmt.Errorf("failed to shift positions: %w", err)
		}
		return nil
	})
}

// Reorder assigns positions 1..n in the order of ids, all or nothing.
func (d *DB) Reorder(ctx context.Context, ids []string) error {
	rowIDs := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		rowID, err := parseStepID(id)
		if err != nil {
			return err
		}
		if seen[rowID] {
			return fmt.Errorf("reorder: duplicate id %s", id)
		}
		seen[rowID] = true
		rowIDs = append(rowIDs, rowID)
	}

	return d.inTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM navigation_test_images`).Scan(&count); err != nil {
			return err
		}
		if count != len(rowIDs) {
			return fmt.Errorf("reorder: got %d ids for %d steps", len(rowIDs), count)
		}

		stmt, err := tx.PrepareContext(ctx, `UPDATE navigation_test_images SET position = ? WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, rowID := range rowIDs {
			res, err := stmt.ExecContext(ctx, i+1, rowID)
			if err != nil {
				return fmt.Errorf("failed to update position: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("%w: %d", domain.ErrStepNotFound, rowID)
			}
		}
		return nil
	})
}

func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func parseStepID(id string) (int64, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || rowID <= 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrStepNotFound, id)
	}
	return rowID, nil
}
