package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/TCDevop/otb-planning/internal/domain"
)

type rosterRow struct {
	Level      int    `db:"level"`
	ApproverID string `db:"approver_id"`
}

// GetApproverRoster — авторитетный список согласующих бюджетной строки,
// а не реконструкция из ранее созданных версий.
func (s *store) GetApproverRoster(ctx context.Context, budgetDetailID string) (domain.ApproverRoster, error) {
	query := builder().Select("level", "approver_id").
		From(tableApproverRosters).
		Where(sq.Eq{"budget_detail_id": budgetDetailID}).
		OrderBy("level, position")

	var rows []*rosterRow
	if err := s.pool.Selectx(ctx, &rows, query); err != nil {
		return domain.ApproverRoster{}, wrapErr(err)
	}

	roster := domain.ApproverRoster{}
	for _, row := range rows {
		if domain.ApprovalLevel(row.Level) == domain.ApprovalLevel2 {
			roster.Level2 = append(roster.Level2, row.ApproverID)
		} else {
			roster.Level1 = append(roster.Level1, row.ApproverID)
		}
	}

	return roster, nil
}

func (s *store) ListUserPermissions(ctx context.Context, userID string) ([]domain.Permission, error) {
	query := builder().Select("permission").
		From(tableUserPermissions).
		Where(sq.Eq{"user_id": userID})

	var selected []domain.Permission
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
