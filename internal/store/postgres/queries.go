package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groblegark/fleetboard/internal/model"
	"github.com/groblegark/fleetboard/internal/store"
)

// counterColumn maps a status to the counter it increments. The column name
// is interpolated into SQL, so it must come from this closed mapping and
// never from request input.
func counterColumn(status model.Status) string {
	if status == model.StatusLate {
		return "late"
	}
	return "early"
}

func (s *PostgresStore) EnsureVehicle(ctx context.Context, plate string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicle_stats (plate, early, late)
		VALUES ($1, 0, 0)
		ON CONFLICT (plate) DO NOTHING`,
		plate,
	)
	if err != nil {
		return fmt.Errorf("ensure vehicle: %w", err)
	}
	return nil
}

// IncrementCounter relies on the database executing "x = x + 1" as a single
// atomic update, so concurrent reports for the same plate never lose counts.
func (s *PostgresStore) IncrementCounter(ctx context.Context, plate string, status model.Status) error {
	col := counterColumn(status)
	res, err := s.db.ExecContext(ctx,
		`UPDATE vehicle_stats SET `+col+` = `+col+` + 1 WHERE plate = $1`,
		plate,
	)
	if err != nil {
		return fmt.Errorf("increment %s: %w", col, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s: %w", col, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetCounts(ctx context.Context, plate string) (model.Counts, error) {
	var c model.Counts
	err := s.db.QueryRowContext(ctx,
		`SELECT early, late FROM vehicle_stats WHERE plate = $1`,
		plate,
	).Scan(&c.Early, &c.Late)
	if errors.Is(err, sql.ErrNoRows) {
		// Absent plates read as zero; reads are a safe default, not an error.
		return model.Counts{}, nil
	}
	if err != nil {
		return model.Counts{}, fmt.Errorf("get counts: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListVehicles(ctx context.Context) ([]*model.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT plate, early, late FROM vehicle_stats ORDER BY plate`,
	)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.Plate, &v.Early, &v.Late); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// ResetAll zeroes every row in one statement; rows persist so previously seen
// plates keep reading back {0,0} rather than disappearing.
func (s *PostgresStore) ResetAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE vehicle_stats SET early = 0, late = 0`)
	if err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	return nil
}
