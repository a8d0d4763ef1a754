package store

import (
	"context"
	"fmt"

	"github.com/TCDevop/otb-planning/internal/domain/dto"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
)

var categoryMasterColumns = []string{
	"gender_id", "gender_name", "category_id", "category_name",
	"sub_category_id", "sub_category_name", "position",
}

func (s *store) ListCategoryRows(ctx context.Context) ([]*dto.CategoryRowDto, error) {
	query := builder().Select(categoryMasterColumns...).
		From(tableCategoryMaster).
		OrderBy("position")

	var selected []*dto.CategoryRowDto
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

// ReplaceCategoryRows заменяет мастер-данные целиком: дерево измерений
// никогда не правится по месту.
func (s *store) ReplaceCategoryRows(ctx context.Context, rows []*dto.CategoryRowDto) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("truncate table %s", tableCategoryMaster)); err != nil {
		return fmt.Errorf("truncate category master: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	query := builder().Insert(tableCategoryMaster).Columns(categoryMasterColumns...)
	for _, row := range rows {
		query = query.Values(
			row.GenderID, row.GenderName, row.CategoryID, row.CategoryName,
			row.SubCategoryID, row.SubCategoryName, row.Position,
		)
	}

	if _, err := s.pool.Execx(ctx, query); err != nil {
		logger.Error(ctx, err.Error())
		return err
	}

	return nil
}
