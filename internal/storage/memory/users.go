package memory

import (
	"context"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

// CreateUser stores a new user.
func (q *queries) CreateUser(ctx context.Context, user *models.User) error {
	defer q.write()()

	if _, ok := q.d.usersByEmail[user.Email]; ok {
		return &storage.ConstraintError{Kind: storage.ConstraintUnique, Constraint: "users.email"}
	}
	if _, ok := q.d.users[user.ID]; ok {
		return &storage.ConstraintError{Kind: storage.ConstraintUnique, Constraint: "users.id"}
	}
	c := *user
	q.d.users[user.ID] = &c
	q.d.usersByEmail[user.Email] = user.ID
	return nil
}

// GetUserByEmail returns nil when no user matches.
func (q *queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer q.read()()

	id, ok := q.d.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	c := *q.d.users[id]
	return &c, nil
}

// GetUserByID returns nil when no user matches.
func (q *queries) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	defer q.read()()

	u, ok := q.d.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}
