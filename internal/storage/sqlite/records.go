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

const monthlyColumns = `id, tenant_id, period_id, player_id, player_name, phone, email, position,
	join_date, default_fee, custom_fee, status, payment_date, pending_months_count, created_at, updated_at`

// CreateMonthlyRecord persists a new monthly record, generating its ID if not set.
func (q *queries) CreateMonthlyRecord(ctx context.Context, r *models.MonthlyRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO monthly_records (`+monthlyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TenantID, r.PeriodID, r.PlayerID, r.PlayerName, r.Phone, r.Email, r.Position,
		formatDate(r.JoinDate), r.DefaultFee, r.CustomFee, string(r.Status),
		paymentDateValue(r.PaymentDate), r.PendingMonthsCount, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert monthly record: %w", mapError(err, "monthly_records.player_period"))
	}
	return nil
}

// GetMonthlyRecord retrieves a monthly record by ID within the tenant.
func (q *queries) GetMonthlyRecord(ctx context.Context, tenantID, recordID string) (*models.MonthlyRecord, error) {
	r, err := scanMonthly(q.db.QueryRowContext(ctx,
		`SELECT `+monthlyColumns+` FROM monthly_records WHERE tenant_id = ? AND id = ?`,
		tenantID, recordID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly record: %w", err)
	}
	return r, nil
}

// GetMonthlyRecordByPlayer retrieves the player's record in a period.
func (q *queries) GetMonthlyRecordByPlayer(ctx context.Context, tenantID, periodID, playerID string) (*models.MonthlyRecord, error) {
	r, err := scanMonthly(q.db.QueryRowContext(ctx,
		`SELECT `+monthlyColumns+` FROM monthly_records
		 WHERE tenant_id = ? AND period_id = ? AND player_id = ?`,
		tenantID, periodID, playerID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly record: %w", err)
	}
	return r, nil
}

// ListMonthlyRecords returns a period's monthly records ordered by player name.
func (q *queries) ListMonthlyRecords(ctx context.Context, tenantID, periodID string, filter models.RecordFilter) ([]*models.MonthlyRecord, error) {
	query := `SELECT ` + monthlyColumns + ` FROM monthly_records WHERE tenant_id = ? AND period_id = ?`
	args := []any{tenantID, periodID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY player_name, id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly records: %w", err)
	}
	defer rows.Close()

	var records []*models.MonthlyRecord
	for rows.Next() {
		r, err := scanMonthly(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly records: %w", err)
	}
	return records, nil
}

// ListPlayerHistory returns the player's records joined with their period's month.
func (q *queries) ListPlayerHistory(ctx context.Context, tenantID, playerID string) ([]*storage.PlayerRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT r.id, r.period_id, p.year, p.month, r.status, r.pending_months_count
		 FROM monthly_records r
		 JOIN periods p ON p.tenant_id = r.tenant_id AND p.id = r.period_id
		 WHERE r.tenant_id = ? AND r.player_id = ?
		 ORDER BY p.year, p.month`,
		tenantID, playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get player history: %w", err)
	}
	defer rows.Close()

	var history []*storage.PlayerRecord
	for rows.Next() {
		h := &storage.PlayerRecord{}
		var status string
		if err := rows.Scan(&h.RecordID, &h.PeriodID, &h.Year, &h.Month, &status, &h.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan player history: %w", err)
		}
		h.Status = models.PaymentStatus(status)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player history: %w", err)
	}
	return history, nil
}

// CountPlayerRecords counts the player's monthly records across periods.
func (q *queries) CountPlayerRecords(ctx context.Context, tenantID, playerID string) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM monthly_records WHERE tenant_id = ? AND player_id = ?`,
		tenantID, playerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count player records: %w", err)
	}
	return n, nil
}

// UpdateMonthlyRecord writes the record's fee and payment columns.
// Snapshot columns are immutable after creation.
func (q *queries) UpdateMonthlyRecord(ctx context.Context, r *models.MonthlyRecord) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE monthly_records SET default_fee = ?, custom_fee = ?, status = ?, payment_date = ?,
		 pending_months_count = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		r.DefaultFee, r.CustomFee, string(r.Status), paymentDateValue(r.PaymentDate),
		r.PendingMonthsCount, r.UpdatedAt,
		r.TenantID, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update monthly record: %w", err)
	}
	return requireAffected(res)
}

// SetPendingMonthsCount updates only the accumulator column.
func (q *queries) SetPendingMonthsCount(ctx context.Context, tenantID, recordID string, count int) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE monthly_records SET pending_months_count = ? WHERE tenant_id = ? AND id = ?`,
		count, tenantID, recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to set pending months count: %w", err)
	}
	return requireAffected(res)
}

func scanMonthly(row scanner) (*models.MonthlyRecord, error) {
	r := &models.MonthlyRecord{}
	var joinDate, status string
	var paid sql.NullInt64
	err := row.Scan(
		&r.ID, &r.TenantID, &r.PeriodID, &r.PlayerID, &r.PlayerName, &r.Phone, &r.Email,
		&r.Position, &joinDate, &r.DefaultFee, &r.CustomFee, &status, &paid,
		&r.PendingMonthsCount, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.JoinDate, err = parseDate(joinDate); err != nil {
		return nil, err
	}
	r.Status = models.PaymentStatus(status)
	r.PaymentDate = paymentDateFrom(paid)
	return r, nil
}

const casualColumns = `id, tenant_id, period_id, player_name, play_date, invited_by, amount,
	status, payment_date, created_at, updated_at`

// CreateCasualRecord persists a new casual record, generating its ID if not set.
func (q *queries) CreateCasualRecord(ctx context.Context, r *models.CasualRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO casual_records (`+casualColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TenantID, r.PeriodID, r.PlayerName, formatDate(r.PlayDate), r.InvitedBy,
		r.Amount, string(r.Status), paymentDateValue(r.PaymentDate), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert casual record: %w", mapError(err, "casual_records.period_id"))
	}
	return nil
}

// GetCasualRecord retrieves a casual record by ID within the tenant.
func (q *queries) GetCasualRecord(ctx context.Context, tenantID, recordID string) (*models.CasualRecord, error) {
	r, err := scanCasual(q.db.QueryRowContext(ctx,
		`SELECT `+casualColumns+` FROM casual_records WHERE tenant_id = ? AND id = ?`,
		tenantID, recordID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get casual record: %w", err)
	}
	return r, nil
}

// ListCasualRecords returns a period's casual records ordered by play date.
func (q *queries) ListCasualRecords(ctx context.Context, tenantID, periodID string) ([]*models.CasualRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+casualColumns+` FROM casual_records
		 WHERE tenant_id = ? AND period_id = ?
		 ORDER BY play_date, created_at, id`,
		tenantID, periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list casual records: %w", err)
	}
	defer rows.Close()

	var records []*models.CasualRecord
	for rows.Next() {
		r, err := scanCasual(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan casual record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating casual records: %w", err)
	}
	return records, nil
}

// UpdateCasualRecord writes the record's mutable columns.
func (q *queries) UpdateCasualRecord(ctx context.Context, r *models.CasualRecord) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE casual_records SET player_name = ?, play_date = ?, invited_by = ?, amount = ?,
		 status = ?, payment_date = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		r.PlayerName, formatDate(r.PlayDate), r.InvitedBy, r.Amount,
		string(r.Status), paymentDateValue(r.PaymentDate), r.UpdatedAt,
		r.TenantID, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update casual record: %w", err)
	}
	return requireAffected(res)
}

func scanCasual(row scanner) (*models.CasualRecord, error) {
	r := &models.CasualRecord{}
	var playDate, status string
	var paid sql.NullInt64
	err := row.Scan(
		&r.ID, &r.TenantID, &r.PeriodID, &r.PlayerName, &playDate, &r.InvitedBy, &r.Amount,
		&status, &paid, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.PlayDate, err = parseDate(playDate); err != nil {
		return nil, err
	}
	r.Status = models.PaymentStatus(status)
	r.PaymentDate = paymentDateFrom(paid)
	return r, nil
}
