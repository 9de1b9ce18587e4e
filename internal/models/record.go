package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/calculator"
)

// MonthlyRecord is a roster player's entry in one period. Player attributes
// are snapshotted when the record is created so later roster edits do not
// rewrite history.
type MonthlyRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	TenantID string
	PeriodID string
	PlayerID string

	// Snapshot of the player at the time the record was created.
	PlayerName string
	Phone      string
	Email      string
	Position   string
	JoinDate   time.Time

	// DefaultFee is the player's fee at snapshot time, revised in bulk per period.
	DefaultFee decimal.Decimal

	// CustomFee overrides DefaultFee for this period only.
	CustomFee decimal.NullDecimal

	Payment

	// PendingMonthsCount is the number of unpaid periods for this player up to
	// and including this one. Maintained by the pending-dues accumulator.
	PendingMonthsCount int

	CreatedAt int64
	UpdatedAt int64
}

// NewMonthlyRecord snapshots player into period. Both must belong to the same tenant.
func NewMonthlyRecord(period *Period, player *Player, now time.Time) (*MonthlyRecord, error) {
	if period.TenantID != player.TenantID {
		return nil, fieldErr("player_ids", "player does not belong to the period's account")
	}
	if !player.Active {
		return nil, fieldErr("player_ids", "player %s is not active", player.Name)
	}
	return &MonthlyRecord{
		TenantID:   period.TenantID,
		PeriodID:   period.ID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Phone:      player.Phone,
		Email:      player.Email,
		Position:   player.Position,
		JoinDate:   player.JoinDate,
		DefaultFee: player.DefaultFee,
		Payment:    Payment{Status: StatusPending},
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	}, nil
}

// EffectiveFee is CustomFee when set, DefaultFee otherwise.
func (r *MonthlyRecord) EffectiveFee() decimal.Decimal {
	return calculator.EffectiveFee(r.DefaultFee, r.CustomFee)
}

// SetCustomFee overrides the fee for this period. fee must not be negative.
func (r *MonthlyRecord) SetCustomFee(fee decimal.Decimal, now time.Time) error {
	if fee.IsNegative() {
		return fieldErr("fee", "fee must be greater than or equal to 0")
	}
	r.CustomFee = decimal.NewNullDecimal(fee)
	r.UpdatedAt = now.Unix()
	return nil
}

// ClearCustomFee makes DefaultFee effective again.
func (r *MonthlyRecord) ClearCustomFee(now time.Time) {
	r.CustomFee = decimal.NullDecimal{}
	r.UpdatedAt = now.Unix()
}

// CasualRecord is an ad-hoc participant's charge in a period. It has no
// roster reference.
type CasualRecord struct {
	ID       string
	TenantID string
	PeriodID string

	PlayerName string
	PlayDate   time.Time
	InvitedBy  string
	Amount     decimal.Decimal

	Payment

	CreatedAt int64
	UpdatedAt int64
}

// CasualFields carries the user-supplied attributes of a casual record.
type CasualFields struct {
	PlayerName string
	PlayDate   time.Time
	InvitedBy  string
	Amount     decimal.Decimal

	// Status defaults to pending.
	Status      PaymentStatus
	PaymentDate *time.Time
}

// NewCasualRecord validates f and attaches the record to period.
// A zero PlayDate defaults to the day of now.
func NewCasualRecord(period *Period, f CasualFields, now time.Time) (*CasualRecord, error) {
	name, err := requireText("player_name", f.PlayerName, 100)
	if err != nil {
		return nil, err
	}
	if !f.Amount.IsPositive() {
		return nil, fieldErr("amount", "amount must be greater than 0")
	}
	invitedBy := strings.TrimSpace(f.InvitedBy)
	if len(invitedBy) > 100 {
		return nil, fieldErr("invited_by", "invited_by must be at most 100 characters")
	}
	status := f.Status
	if status == "" {
		status = StatusPending
	}
	if _, err := ParsePaymentStatus(string(status)); err != nil {
		return nil, err
	}
	playDate := f.PlayDate
	if playDate.IsZero() {
		playDate = now
	}
	r := &CasualRecord{
		TenantID:   period.TenantID,
		PeriodID:   period.ID,
		PlayerName: name,
		PlayDate:   Day(playDate),
		InvitedBy:  invitedBy,
		Amount:     f.Amount,
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	}
	r.Transition(status, f.PaymentDate, now)
	return r, nil
}

// RecordFilter narrows record listings. Zero values match everything.
type RecordFilter struct {
	Status PaymentStatus
}
