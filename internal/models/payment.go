package models

import "time"

// PaymentStatus is the state of a single charge.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "pending"
	StatusPaid    PaymentStatus = "paid"
	StatusOverdue PaymentStatus = "overdue"
)

// ParsePaymentStatus validates s. The error names the allowed set.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case StatusPending, StatusPaid, StatusOverdue:
		return PaymentStatus(s), nil
	}
	return "", fieldErr("status", "status must be one of: pending, paid, overdue")
}

// Paid reports whether the charge counts towards received totals.
func (s PaymentStatus) Paid() bool { return s == StatusPaid }

// Payment is the status state machine shared by monthly and casual records.
// PaymentDate is set exactly when Status is paid.
type Payment struct {
	Status      PaymentStatus
	PaymentDate *time.Time
}

// Transition moves the payment to status. Moving to paid stamps date, or now
// when date is nil. Moving to pending or overdue clears the date.
func (p *Payment) Transition(status PaymentStatus, date *time.Time, now time.Time) {
	p.Status = status
	if status != StatusPaid {
		p.PaymentDate = nil
		return
	}
	at := now.UTC()
	if date != nil && !date.IsZero() {
		at = date.UTC()
	}
	p.PaymentDate = &at
}
