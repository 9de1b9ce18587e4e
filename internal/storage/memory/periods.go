package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

func copyPeriod(p *models.Period) *models.Period {
	c := *p
	return &c
}

// CreatePeriod stores a new period, generating its ID if not set.
func (q *queries) CreatePeriod(ctx context.Context, period *models.Period) error {
	defer q.write()()

	key := monthKey{period.TenantID, period.Year, period.Month}
	if _, ok := q.d.periodsByMonth[key]; ok {
		return &storage.ConstraintError{Kind: storage.ConstraintUnique, Constraint: "periods.year_month"}
	}
	if period.ID == "" {
		period.ID = uuid.New().String()
	}
	q.d.periods[period.ID] = copyPeriod(period)
	q.d.periodsByMonth[key] = period.ID
	return nil
}

func (q *queries) period(tenantID, periodID string) (*models.Period, bool) {
	p, ok := q.d.periods[periodID]
	if !ok || p.TenantID != tenantID {
		return nil, false
	}
	return p, true
}

// GetPeriod returns a copy of the tenant's period.
func (q *queries) GetPeriod(ctx context.Context, tenantID, periodID string) (*models.Period, error) {
	defer q.read()()

	p, ok := q.period(tenantID, periodID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPeriod(p), nil
}

// ListPeriods returns the tenant's periods, newest first.
func (q *queries) ListPeriods(ctx context.Context, tenantID string, filter models.PeriodFilter) ([]*models.Period, error) {
	defer q.read()()

	var periods []*models.Period
	for _, p := range q.d.periods {
		if p.TenantID != tenantID {
			continue
		}
		if filter.Year != 0 && p.Year != filter.Year {
			continue
		}
		if filter.Month != 0 && p.Month != filter.Month {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		periods = append(periods, copyPeriod(p))
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Ordinal() > periods[j].Ordinal()
	})
	return periods, nil
}

// UpdatePeriod applies the optimistic version check before replacing the row.
func (q *queries) UpdatePeriod(ctx context.Context, period *models.Period) error {
	defer q.write()()

	stored, ok := q.period(period.TenantID, period.ID)
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Version != period.Version {
		return storage.ErrVersionConflict
	}
	next := copyPeriod(period)
	// Calendar month is immutable.
	next.Year, next.Month, next.CreatedAt = stored.Year, stored.Month, stored.CreatedAt
	next.Version++
	q.d.periods[period.ID] = next
	period.Version++
	return nil
}

// DeletePeriod removes the period and every child row.
func (q *queries) DeletePeriod(ctx context.Context, tenantID, periodID string) error {
	defer q.write()()

	p, ok := q.period(tenantID, periodID)
	if !ok {
		return storage.ErrNotFound
	}
	for id, r := range q.d.monthly {
		if r.TenantID == tenantID && r.PeriodID == periodID {
			delete(q.d.monthlyByPlayer, recordKey{r.TenantID, r.PlayerID, r.PeriodID})
			delete(q.d.monthly, id)
		}
	}
	for id, r := range q.d.casual {
		if r.TenantID == tenantID && r.PeriodID == periodID {
			delete(q.d.casual, id)
		}
	}
	for id, e := range q.d.expenses {
		if e.TenantID == tenantID && e.PeriodID == periodID {
			delete(q.d.expenses, id)
		}
	}
	delete(q.d.periodsByMonth, monthKey{p.TenantID, p.Year, p.Month})
	delete(q.d.periods, periodID)
	return nil
}
