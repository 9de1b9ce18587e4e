package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

const playerColumns = `id, tenant_id, name, phone, email, position, default_fee, join_date, active, created_at, updated_at`

// CreatePlayer persists a new player, generating its ID if not set.
func (q *queries) CreatePlayer(ctx context.Context, player *models.Player) error {
	if player.ID == "" {
		player.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.ID, player.TenantID, player.Name, player.Phone, player.Email, player.Position,
		player.DefaultFee, formatDate(player.JoinDate), boolToInt(player.Active),
		player.CreatedAt, player.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", mapError(err, "players.phone"))
	}
	return nil
}

// GetPlayer retrieves a player by ID within the tenant.
func (q *queries) GetPlayer(ctx context.Context, tenantID, playerID string) (*models.Player, error) {
	player, err := scanPlayer(q.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tenant_id = ? AND id = ?`,
		tenantID, playerID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetPlayerByPhone retrieves a player by phone within the tenant.
func (q *queries) GetPlayerByPhone(ctx context.Context, tenantID, phone string) (*models.Player, error) {
	player, err := scanPlayer(q.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tenant_id = ? AND phone = ?`,
		tenantID, phone,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by phone: %w", err)
	}
	return player, nil
}

// GetPlayersByIDs retrieves multiple players by their IDs.
// Returns a map of player ID to Player object.
// Players that don't exist or belong to another tenant are omitted from the result.
func (q *queries) GetPlayersByIDs(ctx context.Context, tenantID string, ids []string) (map[string]*models.Player, error) {
	players := make(map[string]*models.Player)
	if len(ids) == 0 {
		return players, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, tenantID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE tenant_id = ? AND id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get players by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players[player.ID] = player
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// ListPlayers returns the tenant's players ordered by name.
func (q *queries) ListPlayers(ctx context.Context, tenantID string, filter models.PlayerFilter) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE tenant_id = ?`
	args := []any{tenantID}
	if filter.Active != nil {
		query += ` AND active = ?`
		args = append(args, boolToInt(*filter.Active))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		query += ` AND name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(s)+"%")
	}
	query += ` ORDER BY name, id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// UpdatePlayer writes the player's mutable columns.
func (q *queries) UpdatePlayer(ctx context.Context, player *models.Player) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE players SET name = ?, phone = ?, email = ?, position = ?, default_fee = ?,
		 join_date = ?, active = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		player.Name, player.Phone, player.Email, player.Position, player.DefaultFee,
		formatDate(player.JoinDate), boolToInt(player.Active), player.UpdatedAt,
		player.TenantID, player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", mapError(err, "players.phone"))
	}
	return requireAffected(res)
}

// DeletePlayer removes a player without ledger history.
func (q *queries) DeletePlayer(ctx context.Context, tenantID, playerID string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM players WHERE tenant_id = ? AND id = ?`,
		tenantID, playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", mapError(err, "monthly_records.player_id"))
	}
	return requireAffected(res)
}

func scanPlayer(row scanner) (*models.Player, error) {
	player := &models.Player{}
	var joinDate string
	var active int
	err := row.Scan(
		&player.ID, &player.TenantID, &player.Name, &player.Phone, &player.Email,
		&player.Position, &player.DefaultFee, &joinDate, &active,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if player.JoinDate, err = parseDate(joinDate); err != nil {
		return nil, err
	}
	player.Active = active != 0
	return player, nil
}

// requireAffected maps a write that matched no row to storage.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
