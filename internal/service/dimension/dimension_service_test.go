package dimension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TCDevop/otb-planning/internal/domain/dto"
)

func testRows() []*dto.CategoryRowDto {
	return []*dto.CategoryRowDto{
		{GenderID: "female", GenderName: "Female", CategoryID: "women_hard_acc", CategoryName: "Hard Accessories", SubCategoryID: "w_bags", SubCategoryName: "Bags"},
		{GenderID: "female", GenderName: "Female", CategoryID: "women_hard_acc", CategoryName: "Hard Accessories", SubCategoryID: "w_belts", SubCategoryName: "Belts"},
		// дубликат подкатегории во входе должен схлопнуться
		{GenderID: "female", GenderName: "Female", CategoryID: "women_hard_acc", CategoryName: "Hard Accessories", SubCategoryID: "w_bags", SubCategoryName: "Bags"},
		{GenderID: "female", GenderName: "Female", CategoryID: "women_shoes", CategoryName: "Shoes", SubCategoryID: "w_heels", SubCategoryName: "Heels"},
		{GenderID: "male", GenderName: "Male", CategoryID: "men_shoes", CategoryName: "Shoes", SubCategoryID: "m_sneakers", SubCategoryName: "Sneakers"},
	}
}

func TestBuildDedupesAndPreservesOrder(t *testing.T) {
	tree := Build(testRows())

	require.Len(t, tree.Genders, 2)
	assert.Equal(t, "female", tree.Genders[0].ID)
	assert.Equal(t, "male", tree.Genders[1].ID)

	female := tree.Genders[0]
	require.Len(t, female.Children, 2)
	assert.Equal(t, "women_hard_acc", female.Children[0].ID)
	assert.Equal(t, "women_shoes", female.Children[1].ID)

	hardAcc := female.Children[0]
	require.Len(t, hardAcc.Children, 2)
	assert.Equal(t, "w_bags", hardAcc.Children[0].ID)
	assert.Equal(t, "w_belts", hardAcc.Children[1].ID)
}

func TestBuildEmptyInput(t *testing.T) {
	tree := Build(nil)

	assert.Empty(t, tree.Genders)
}

func TestBuildCategoryOnlyRows(t *testing.T) {
	tree := Build([]*dto.CategoryRowDto{
		{GenderID: "female", GenderName: "Female", CategoryID: "women_shoes", CategoryName: "Shoes"},
	})

	require.Len(t, tree.Genders, 1)
	require.Len(t, tree.Genders[0].Children, 1)
	assert.Empty(t, tree.Genders[0].Children[0].Children)
}

func TestOptionsCascade(t *testing.T) {
	tree := Build(testRows())

	// без выбора — все опции всех уровней
	opts := Options(tree, FilterSelection{})
	assert.Len(t, opts.Genders, 2)
	assert.Len(t, opts.Categories, 3)
	assert.Len(t, opts.SubCategories, 4)

	// выбор гендера сужает нижние уровни до его детей
	opts = Options(tree, FilterSelection{GenderID: "female"})
	assert.Len(t, opts.Genders, 2)
	assert.Len(t, opts.Categories, 2)
	assert.Len(t, opts.SubCategories, 3)

	opts = Options(tree, FilterSelection{GenderID: "female", CategoryID: "women_hard_acc"})
	assert.Len(t, opts.SubCategories, 2)
}

func TestNormalizeResetsLowerFilters(t *testing.T) {
	tree := Build(testRows())

	// категория чужого гендера сбрасывается вместе с подкатегорией
	sel := Normalize(tree, FilterSelection{GenderID: "male", CategoryID: "women_hard_acc", SubCategoryID: "w_bags"})
	assert.Equal(t, "male", sel.GenderID)
	assert.Empty(t, sel.CategoryID)
	assert.Empty(t, sel.SubCategoryID)

	// подкатегория чужой категории сбрасывается, категория остаётся
	sel = Normalize(tree, FilterSelection{GenderID: "female", CategoryID: "women_shoes", SubCategoryID: "w_bags"})
	assert.Equal(t, "women_shoes", sel.CategoryID)
	assert.Empty(t, sel.SubCategoryID)

	// неизвестный гендер обнуляет всё
	sel = Normalize(tree, FilterSelection{GenderID: "other", CategoryID: "women_shoes"})
	assert.Equal(t, FilterSelection{}, sel)
}
