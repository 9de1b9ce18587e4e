package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

const periodColumns = `id, tenant_id, year, month, name, status, total_expected, total_received,
	players_count, version, created_at, updated_at`

// CreatePeriod persists a new period, generating its ID if not set.
func (q *queries) CreatePeriod(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO periods (`+periodColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		period.ID, period.TenantID, period.Year, period.Month, period.Name, string(period.Status),
		period.TotalExpected, period.TotalReceived, period.PlayersCount, period.Version,
		period.CreatedAt, period.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert period: %w", mapError(err, "periods.year_month"))
	}
	return nil
}

// GetPeriod retrieves a period by ID within the tenant.
func (q *queries) GetPeriod(ctx context.Context, tenantID, periodID string) (*models.Period, error) {
	period, err := scanPeriod(q.db.QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM periods WHERE tenant_id = ? AND id = ?`,
		tenantID, periodID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return period, nil
}

// ListPeriods returns the tenant's periods, newest first.
func (q *queries) ListPeriods(ctx context.Context, tenantID string, filter models.PeriodFilter) ([]*models.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE tenant_id = ?`
	args := []any{tenantID}
	if filter.Year != 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	if filter.Month != 0 {
		query += ` AND month = ?`
		args = append(args, filter.Month)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY year DESC, month DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating periods: %w", err)
	}
	return periods, nil
}

// UpdatePeriod writes the period if its version is unchanged since it was read.
func (q *queries) UpdatePeriod(ctx context.Context, period *models.Period) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE periods SET name = ?, status = ?, total_expected = ?, total_received = ?,
		 players_count = ?, updated_at = ?, version = version + 1
		 WHERE tenant_id = ? AND id = ? AND version = ?`,
		period.Name, string(period.Status), period.TotalExpected, period.TotalReceived,
		period.PlayersCount, period.UpdatedAt,
		period.TenantID, period.ID, period.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		// Distinguish a stale version from a missing row.
		var exists int
		err := q.db.QueryRowContext(ctx,
			`SELECT 1 FROM periods WHERE tenant_id = ? AND id = ?`,
			period.TenantID, period.ID,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check period: %w", err)
		}
		return storage.ErrVersionConflict
	}
	period.Version++
	return nil
}

// DeletePeriod removes the period and, explicitly, every child row.
func (q *queries) DeletePeriod(ctx context.Context, tenantID, periodID string) error {
	for _, table := range []string{"monthly_records", "casual_records", "expenses"} {
		if _, err := q.db.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE tenant_id = ? AND period_id = ?`,
			tenantID, periodID,
		); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	res, err := q.db.ExecContext(ctx,
		`DELETE FROM periods WHERE tenant_id = ? AND id = ?`,
		tenantID, periodID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete period: %w", err)
	}
	return requireAffected(res)
}

func scanPeriod(row scanner) (*models.Period, error) {
	period := &models.Period{}
	var status string
	err := row.Scan(
		&period.ID, &period.TenantID, &period.Year, &period.Month, &period.Name, &status,
		&period.TotalExpected, &period.TotalReceived, &period.PlayersCount, &period.Version,
		&period.CreatedAt, &period.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	period.Status = models.PeriodStatus(status)
	return period, nil
}
