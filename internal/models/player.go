package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Player is a regular participant on a tenant's roster.
type Player struct {
	// ID is the unique identifier for the player (UUID format).
	ID string

	// TenantID is the account that owns this player.
	TenantID string

	// Name is the display name of the player.
	Name string

	// Phone is unique within a tenant.
	Phone string

	// Email is optional and stored lowercased.
	Email string

	// Position is a free-form field position ("goalkeeper", "defender", ...).
	Position string

	// DefaultFee is the monthly fee copied into each new MonthlyRecord.
	DefaultFee decimal.Decimal

	// JoinDate is the day the player joined the group.
	JoinDate time.Time

	// Active players can be added to periods. Players with ledger history are
	// deactivated rather than deleted.
	Active bool

	// CreatedAt is the Unix timestamp when the player was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// PlayerFields carries the user-supplied attributes of a player.
type PlayerFields struct {
	Name       string
	Phone      string
	Email      string
	Position   string
	DefaultFee decimal.Decimal
	JoinDate   time.Time
}

// PlayerUpdate is a partial update; nil fields are left untouched.
type PlayerUpdate struct {
	Name       *string
	Phone      *string
	Email      *string
	Position   *string
	DefaultFee *decimal.Decimal
}

// NewPlayer validates f and returns an active player owned by tenantID.
// A zero JoinDate defaults to the day of now.
func NewPlayer(tenantID string, f PlayerFields, now time.Time) (*Player, error) {
	name, err := requireText("name", f.Name, 100)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("phone", f.Phone, 20)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(f.Email)
	if err != nil {
		return nil, err
	}
	if f.DefaultFee.IsNegative() {
		return nil, fieldErr("default_fee", "default_fee must be greater than or equal to 0")
	}
	join := f.JoinDate
	if join.IsZero() {
		join = now
	}
	return &Player{
		TenantID:   tenantID,
		Name:       name,
		Phone:      phone,
		Email:      email,
		Position:   strings.TrimSpace(f.Position),
		DefaultFee: f.DefaultFee,
		JoinDate:   Day(join),
		Active:     true,
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	}, nil
}

// Apply validates and applies u. The player is unchanged when an error is returned.
func (p *Player) Apply(u PlayerUpdate, now time.Time) error {
	next := *p
	var err error
	if u.Name != nil {
		if next.Name, err = requireText("name", *u.Name, 100); err != nil {
			return err
		}
	}
	if u.Phone != nil {
		if next.Phone, err = requireText("phone", *u.Phone, 20); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if next.Email, err = normalizeEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Position != nil {
		next.Position = strings.TrimSpace(*u.Position)
	}
	if u.DefaultFee != nil {
		if u.DefaultFee.IsNegative() {
			return fieldErr("default_fee", "default_fee must be greater than or equal to 0")
		}
		next.DefaultFee = *u.DefaultFee
	}
	next.UpdatedAt = now.Unix()
	*p = next
	return nil
}

// SetActive flips the active flag. Repeating the current state is an error.
func (p *Player) SetActive(active bool, now time.Time) error {
	if p.Active == active {
		if active {
			return fieldErr("active", "player is already active")
		}
		return fieldErr("active", "player is already inactive")
	}
	p.Active = active
	p.UpdatedAt = now.Unix()
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", nil
	}
	if !strings.Contains(email, "@") || len(email) > 100 {
		return "", fieldErr("email", "email must be a valid email address")
	}
	return email, nil
}

// PlayerFilter narrows ListPlayers. Zero values match everything.
type PlayerFilter struct {
	// Active, when set, restricts to active or inactive players.
	Active *bool

	// Search matches a case-insensitive substring of the name.
	Search string
}
