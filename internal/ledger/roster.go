package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

// CreatePlayer adds an active player to the tenant's roster.
func (l *Ledger) CreatePlayer(ctx context.Context, tenantID string, f models.PlayerFields) (*models.Player, error) {
	player, err := models.NewPlayer(tenantID, f, l.now())
	if err != nil {
		return nil, translate(err)
	}

	err = l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if err := ensurePhoneFree(ctx, u, player.Phone, ""); err != nil {
			return err
		}
		return u.q.CreatePlayer(ctx, player)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Player created", "tenant_id", tenantID, "player_id", player.ID)
	return player, nil
}

// GetPlayer returns one of the tenant's players.
func (l *Ledger) GetPlayer(ctx context.Context, tenantID, playerID string) (*models.Player, error) {
	var player *models.Player
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		player, err = u.q.GetPlayer(ctx, tenantID, playerID)
		return err
	})
	return player, err
}

// ListPlayers returns the tenant's roster ordered by name.
func (l *Ledger) ListPlayers(ctx context.Context, tenantID string, filter models.PlayerFilter) ([]*models.Player, error) {
	var players []*models.Player
	err := l.read(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		players, err = u.q.ListPlayers(ctx, tenantID, filter)
		return err
	})
	return players, err
}

// UpdatePlayer applies a partial update. Existing period records keep their
// snapshot of the player.
func (l *Ledger) UpdatePlayer(ctx context.Context, tenantID, playerID string, update models.PlayerUpdate) (*models.Player, error) {
	return l.mutatePlayer(ctx, tenantID, playerID, func(p *models.Player, now time.Time) error {
		return p.Apply(update, now)
	})
}

// ActivatePlayer makes the player available for new periods again.
func (l *Ledger) ActivatePlayer(ctx context.Context, tenantID, playerID string) (*models.Player, error) {
	return l.mutatePlayer(ctx, tenantID, playerID, func(p *models.Player, now time.Time) error {
		return p.SetActive(true, now)
	})
}

// DeactivatePlayer keeps the player and its history but excludes it from new periods.
func (l *Ledger) DeactivatePlayer(ctx context.Context, tenantID, playerID string) (*models.Player, error) {
	return l.mutatePlayer(ctx, tenantID, playerID, func(p *models.Player, now time.Time) error {
		return p.SetActive(false, now)
	})
}

// DeletePlayer removes a player that never appeared in a period.
func (l *Ledger) DeletePlayer(ctx context.Context, tenantID, playerID string) error {
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		if _, err := u.q.GetPlayer(ctx, tenantID, playerID); err != nil {
			return err
		}
		n, err := u.q.CountPlayerRecords(ctx, tenantID, playerID)
		if err != nil {
			return err
		}
		if n > 0 {
			return invalid("player", "player has payment history and cannot be deleted, deactivate instead")
		}
		return u.q.DeletePlayer(ctx, tenantID, playerID)
	})
	if err != nil {
		return err
	}

	l.logger.Info("Player deleted", "tenant_id", tenantID, "player_id", playerID)
	return nil
}

func (l *Ledger) mutatePlayer(ctx context.Context, tenantID, playerID string, mutate func(*models.Player, time.Time) error) (*models.Player, error) {
	var player *models.Player
	err := l.withTx(ctx, tenantID, func(ctx context.Context, u *unit) error {
		var err error
		player, err = u.q.GetPlayer(ctx, tenantID, playerID)
		if err != nil {
			return err
		}
		if err := mutate(player, l.now()); err != nil {
			return err
		}
		if err := ensurePhoneFree(ctx, u, player.Phone, player.ID); err != nil {
			return err
		}
		return u.q.UpdatePlayer(ctx, player)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// ensurePhoneFree rejects a phone already used by another of the tenant's players.
func ensurePhoneFree(ctx context.Context, u *unit, phone, selfID string) error {
	existing, err := u.q.GetPlayerByPhone(ctx, u.tenantID, phone)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return &ConflictError{Field: "phone", Message: "a player with this phone already exists"}
}
