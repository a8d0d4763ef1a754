package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/TCDevop/otb-planning/internal/domain"
)

var userColumns = []string{"id", "email", "first_name", "last_name", "created_at", "updated_at"}

func (s *store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := builder().Select(userColumns...).
		From(tableUsers).
		Where(sq.Eq{"id": id})

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}
