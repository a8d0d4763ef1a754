package dimension

import (
	"context"
	"fmt"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/domain/dto"
	"github.com/TCDevop/otb-planning/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewService(store store.Store) *Service {
	return &Service{store: store}
}

// Tree строит дерево измерений по мастер-данным из хранилища.
func (s *Service) Tree(ctx context.Context) (*domain.DimensionTree, error) {
	rows, err := s.store.ListCategoryRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListCategoryRows: %w", err)
	}

	return Build(rows), nil
}

// Build собирает Gender → Category → SubCategory из плоских строк
// мастер-данных: дубликаты по id схлопываются, порядок — первое
// появление во входе. Пустой вход даёт пустое дерево.
func Build(rows []*dto.CategoryRowDto) *domain.DimensionTree {
	tree := &domain.DimensionTree{Genders: make([]*domain.DimensionNode, 0, 4)}

	genders := make(map[string]*domain.DimensionNode)
	categories := make(map[string]*domain.DimensionNode)
	subCategories := make(map[string]struct{})

	for _, row := range rows {
		gender, ok := genders[row.GenderID]
		if !ok {
			gender = &domain.DimensionNode{ID: row.GenderID, Name: row.GenderName}
			genders[row.GenderID] = gender
			tree.Genders = append(tree.Genders, gender)
		}

		categoryKey := row.GenderID + "_" + row.CategoryID
		category, ok := categories[categoryKey]
		if !ok {
			category = &domain.DimensionNode{ID: row.CategoryID, Name: row.CategoryName}
			categories[categoryKey] = category
			gender.Children = append(gender.Children, category)
		}

		if row.SubCategoryID == "" {
			continue
		}

		subKey := categoryKey + "_" + row.SubCategoryID
		if _, ok := subCategories[subKey]; ok {
			continue
		}
		subCategories[subKey] = struct{}{}
		category.Children = append(category.Children, &domain.DimensionNode{
			ID:   row.SubCategoryID,
			Name: row.SubCategoryName,
		})
	}

	return tree
}

// FilterSelection — состояние трёх каскадных фильтров, пустая строка
// означает "all".
type FilterSelection struct {
	GenderID      string `json:"gender_id"`
	CategoryID    string `json:"category_id"`
	SubCategoryID string `json:"sub_category_id"`
}

type FilterOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FilterOptions struct {
	Selection     FilterSelection `json:"selection"`
	Genders       []FilterOption  `json:"genders"`
	Categories    []FilterOption  `json:"categories"`
	SubCategories []FilterOption  `json:"sub_categories"`
}

// Normalize сбрасывает нижние фильтры, не согласующиеся с верхними:
// смена гендера обнуляет категорию и подкатегорию и так далее вниз.
func Normalize(tree *domain.DimensionTree, sel FilterSelection) FilterSelection {
	if sel.GenderID != "" && tree.Gender(sel.GenderID) == nil {
		return FilterSelection{}
	}

	if sel.CategoryID != "" {
		if sel.GenderID == "" || tree.Category(sel.GenderID, sel.CategoryID) == nil {
			sel.CategoryID = ""
			sel.SubCategoryID = ""
			return sel
		}
	}

	if sel.SubCategoryID != "" {
		if sel.CategoryID == "" || !hasChild(tree.Category(sel.GenderID, sel.CategoryID), sel.SubCategoryID) {
			sel.SubCategoryID = ""
		}
	}

	return sel
}

// Options проецирует дерево в списки опций трёх каскадных дропдаунов:
// нижние списки ограничены детьми выбранного родителя.
func Options(tree *domain.DimensionTree, sel FilterSelection) FilterOptions {
	sel = Normalize(tree, sel)

	opts := FilterOptions{Selection: sel}

	for _, gender := range tree.Genders {
		opts.Genders = append(opts.Genders, FilterOption{ID: gender.ID, Name: gender.Name})

		if sel.GenderID != "" && gender.ID != sel.GenderID {
			continue
		}

		for _, category := range gender.Children {
			opts.Categories = append(opts.Categories, FilterOption{ID: category.ID, Name: category.Name})

			if sel.CategoryID != "" && category.ID != sel.CategoryID {
				continue
			}

			for _, sub := range category.Children {
				opts.SubCategories = append(opts.SubCategories, FilterOption{ID: sub.ID, Name: sub.Name})
			}
		}
	}

	return opts
}

func hasChild(node *domain.DimensionNode, id string) bool {
	if node == nil {
		return false
	}
	for _, child := range node.Children {
		if child.ID == id {
			return true
		}
	}
	return false
}
