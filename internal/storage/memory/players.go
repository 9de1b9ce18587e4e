package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

func copyPlayer(p *models.Player) *models.Player {
	c := *p
	return &c
}

// CreatePlayer stores a new player, generating its ID if not set.
func (q *queries) CreatePlayer(ctx context.Context, player *models.Player) error {
	defer q.write()()

	key := phoneKey{player.TenantID, player.Phone}
	if _, ok := q.d.playersByPhone[key]; ok {
		return &storage.ConstraintError{Kind: storage.ConstraintUnique, Constraint: "players.phone"}
	}
	if player.ID == "" {
		player.ID = uuid.New().String()
	}
	q.d.players[player.ID] = copyPlayer(player)
	q.d.playersByPhone[key] = player.ID
	return nil
}

func (q *queries) player(tenantID, playerID string) (*models.Player, bool) {
	p, ok := q.d.players[playerID]
	if !ok || p.TenantID != tenantID {
		return nil, false
	}
	return p, true
}

// GetPlayer returns a copy of the tenant's player.
func (q *queries) GetPlayer(ctx context.Context, tenantID, playerID string) (*models.Player, error) {
	defer q.read()()

	p, ok := q.player(tenantID, playerID)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPlayer(p), nil
}

// GetPlayerByPhone looks the player up through the phone index.
func (q *queries) GetPlayerByPhone(ctx context.Context, tenantID, phone string) (*models.Player, error) {
	defer q.read()()

	id, ok := q.d.playersByPhone[phoneKey{tenantID, phone}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyPlayer(q.d.players[id]), nil
}

// GetPlayersByIDs returns the tenant's players among ids.
func (q *queries) GetPlayersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]*models.Player, error) {
	defer q.read()()

	players := make(map[string]*models.Player)
	for _, id := range ids {
		if p, ok := q.player(tenantID, id); ok {
			players[id] = copyPlayer(p)
		}
	}
	return players, nil
}

// ListPlayers returns the tenant's players ordered by name.
func (q *queries) ListPlayers(ctx context.Context, tenantID string, filter models.PlayerFilter) ([]*models.Player, error) {
	defer q.read()()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var players []*models.Player
	for _, p := range q.d.players {
		if p.TenantID != tenantID {
			continue
		}
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		players = append(players, copyPlayer(p))
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// UpdatePlayer replaces the stored player and re-indexes its phone.
func (q *queries) UpdatePlayer(ctx context.Context, player *models.Player) error {
	defer q.write()()

	old, ok := q.player(player.TenantID, player.ID)
	if !ok {
		return storage.ErrNotFound
	}
	key := phoneKey{player.TenantID, player.Phone}
	if id, taken := q.d.playersByPhone[key]; taken && id != player.ID {
		return &storage.ConstraintError{Kind: storage.ConstraintUnique, Constraint: "players.phone"}
	}
	delete(q.d.playersByPhone, phoneKey{old.TenantID, old.Phone})
	q.d.playersByPhone[key] = player.ID
	q.d.players[player.ID] = copyPlayer(player)
	return nil
}

// DeletePlayer refuses while monthly records reference the player.
func (q *queries) DeletePlayer(ctx context.Context, tenantID, playerID string) error {
	defer q.write()()

	p, ok := q.player(tenantID, playerID)
	if !ok {
		return storage.ErrNotFound
	}
	for _, r := range q.d.monthly {
		if r.TenantID == tenantID && r.PlayerID == playerID {
			return &storage.ConstraintError{Kind: storage.ConstraintForeignKey, Constraint: "monthly_records.player_id"}
		}
	}
	delete(q.d.playersByPhone, phoneKey{p.TenantID, p.Phone})
	delete(q.d.players, playerID)
	return nil
}
