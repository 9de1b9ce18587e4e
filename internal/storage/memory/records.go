package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

func copyPayment(p models.Payment) models.Payment {
	if p.PaymentDate != nil {
		d := *p.PaymentDate
		p.PaymentDate = &d
	}
	return p
}

func copyMonthly(r *models.MonthlyRecord) *models.MonthlyRecord {
	c := *r
	c.Payment = copyPayment(r.Payment)
	return &c
}

func copyCasual(r *models.CasualRecord) *models.CasualRecord {
	c := *r
	c.Payment = copyPayment(r.Payment)
	return &c
}

// CreateMonthlyRecord stores a new monthly record. Period and player must
// exist under the record's tenant.
func (q *queries) CreateMonthlyRecord(ctx context.Context, r *models.MonthlyRecord) error {
	defer q.write()()

	if _, ok := q.period(r.TenantID, r.PeriodID); !ok {
		return &storage.ConstraintError{Kind: storage.ConstraintForeignKey, Constraint: "monthly_records.period_id"}
	}
	if _, ok := q.player(r.TenantID, r.PlayerID); !ok {
		return &storage.ConstraintError{Kind: storage.ConstraintForeignKey, Constraint: "monthly_records.player_id"}
	}
	key := recordKey{r.TenantID, r.PlayerID, r.PeriodID}
	if _, ok := q.d.monthlyByPlayer[key]; ok {
		return &storage.ConstraintError{Kind: storage.ConstraintUnique, Constraint: "monthly_records.player_period"}
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	q.d.monthly[r.ID] = copyMonthly(r)
	q.d.monthlyByPlayer[key] = r.ID
	return nil
}

func (q *queries) monthlyRecord(tenantID, recordID string) (*models.MonthlyRecord, bool) {
	r, ok := q.d.monthly[recordID]
	if !ok || r.TenantID != tenantID {
		return nil, false
	}
	return r, true
}

// GetMonthlyRecord returns a copy of the tenant's record.
func (q *queries) GetMonthlyRecord(ctx context.Context, tenantID, recordID string) (*models.MonthlyRecord, error) {
	defer q.read()()

	r, ok := q.monthlyRecord(tenantID, recordID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyMonthly(r), nil
}

// GetMonthlyRecordByPlayer looks the record up through the natural key index.
func (q *queries) GetMonthlyRecordByPlayer(ctx context.Context, tenantID, periodID, playerID string) (*models.MonthlyRecord, error) {
	defer q.read()()

	id, ok := q.d.monthlyByPlayer[recordKey{tenantID, playerID, periodID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyMonthly(q.d.monthly[id]), nil
}

// ListMonthlyRecords returns a period's monthly records ordered by player name.
func (q *queries) ListMonthlyRecords(ctx context.Context, tenantID, periodID string, filter models.RecordFilter) ([]*models.MonthlyRecord, error) {
	defer q.read()()

	var records []*models.MonthlyRecord
	for _, r := range q.d.monthly {
		if r.TenantID != tenantID || r.PeriodID != periodID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		records = append(records, copyMonthly(r))
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].PlayerName != records[j].PlayerName {
			return records[i].PlayerName < records[j].PlayerName
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// ListPlayerHistory joins the player's records with their period's month.
func (q *queries) ListPlayerHistory(ctx context.Context, tenantID, playerID string) ([]*storage.PlayerRecord, error) {
	defer q.read()()

	var history []*storage.PlayerRecord
	for _, r := range q.d.monthly {
		if r.TenantID != tenantID || r.PlayerID != playerID {
			continue
		}
		p, ok := q.period(tenantID, r.PeriodID)
		if !ok {
			continue
		}
		history = append(history, &storage.PlayerRecord{
			RecordID: r.ID,
			PeriodID: r.PeriodID,
			Year:     p.Year,
			Month:    p.Month,
			Status:   r.Status,
			Pending:  r.PendingMonthsCount,
		})
	}
	sort.Slice(history, func(i, j int) bool {
		return models.PeriodOrdinal(history[i].Year, history[i].Month) <
			models.PeriodOrdinal(history[j].Year, history[j].Month)
	})
	return history, nil
}

// CountPlayerRecords counts the player's monthly records across periods.
func (q *queries) CountPlayerRecords(ctx context.Context, tenantID, playerID string) (int, error) {
	defer q.read()()

	n := 0
	for _, r := range q.d.monthly {
		if r.TenantID == tenantID && r.PlayerID == playerID {
			n++
		}
	}
	return n, nil
}

// UpdateMonthlyRecord writes fee and payment fields. Snapshot fields keep
// their stored values.
func (q *queries) UpdateMonthlyRecord(ctx context.Context, r *models.MonthlyRecord) error {
	defer q.write()()

	stored, ok := q.monthlyRecord(r.TenantID, r.ID)
	if !ok {
		return storage.ErrNotFound
	}
	next := copyMonthly(stored)
	next.DefaultFee = r.DefaultFee
	next.CustomFee = r.CustomFee
	next.Payment = copyPayment(r.Payment)
	next.PendingMonthsCount = r.PendingMonthsCount
	next.UpdatedAt = r.UpdatedAt
	q.d.monthly[r.ID] = next
	return nil
}

// SetPendingMonthsCount updates only the accumulator field.
func (q *queries) SetPendingMonthsCount(ctx context.Context, tenantID, recordID string, count int) error {
	defer q.write()()

	stored, ok := q.monthlyRecord(tenantID, recordID)
	if !ok {
		return storage.ErrNotFound
	}
	next := copyMonthly(stored)
	next.PendingMonthsCount = count
	q.d.monthly[recordID] = next
	return nil
}

// CreateCasualRecord stores a new casual record under an existing period.
func (q *queries) CreateCasualRecord(ctx context.Context, r *models.CasualRecord) error {
	defer q.write()()

	if _, ok := q.period(r.TenantID, r.PeriodID); !ok {
		return &storage.ConstraintError{Kind: storage.ConstraintForeignKey, Constraint: "casual_records.period_id"}
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	q.d.casual[r.ID] = copyCasual(r)
	return nil
}

// GetCasualRecord returns a copy of the tenant's casual record.
func (q *queries) GetCasualRecord(ctx context.Context, tenantID, recordID string) (*models.CasualRecord, error) {
	defer q.read()()

	r, ok := q.d.casual[recordID]
	if !ok || r.TenantID != tenantID {
		return nil, storage.ErrNotFound
	}
	return copyCasual(r), nil
}

// ListCasualRecords returns a period's casual records ordered by play date.
func (q *queries) ListCasualRecords(ctx context.Context, tenantID, periodID string) ([]*models.CasualRecord, error) {
	defer q.read()()

	var records []*models.CasualRecord
	for _, r := range q.d.casual {
		if r.TenantID == tenantID && r.PeriodID == periodID {
			records = append(records, copyCasual(r))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return byDate(records[i].PlayDate, records[j].PlayDate,
			records[i].CreatedAt, records[j].CreatedAt, records[i].ID, records[j].ID)
	})
	return records, nil
}

// UpdateCasualRecord replaces the stored casual record.
func (q *queries) UpdateCasualRecord(ctx context.Context, r *models.CasualRecord) error {
	defer q.write()()

	stored, ok := q.d.casual[r.ID]
	if !ok || stored.TenantID != r.TenantID {
		return storage.ErrNotFound
	}
	next := copyCasual(r)
	next.PeriodID, next.CreatedAt = stored.PeriodID, stored.CreatedAt
	q.d.casual[r.ID] = next
	return nil
}

// byDate orders by calendar day, then creation time, then ID.
func byDate(a, b time.Time, createdA, createdB int64, idA, idB string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	if createdA != createdB {
		return createdA < createdB
	}
	return idA < idB
}
