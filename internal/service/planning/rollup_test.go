package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/TCDevop/otb-planning/internal/domain"
)

func testTree() *domain.DimensionTree {
	return &domain.DimensionTree{
		Genders: []*domain.DimensionNode{
			{
				ID: "female", Name: "Female",
				Children: []*domain.DimensionNode{
					{
						ID: "women_hard_acc", Name: "Hard Accessories",
						Children: []*domain.DimensionNode{
							{ID: "w_bags", Name: "Bags"},
							{ID: "w_belts", Name: "Belts"},
						},
					},
					{
						ID: "women_shoes", Name: "Shoes",
						Children: []*domain.DimensionNode{
							{ID: "w_heels", Name: "Heels"},
						},
					},
				},
			},
		},
	}
}

func TestCategoryTotalsSumsLeaves(t *testing.T) {
	cells := map[string]domain.CellMetrics{
		domain.CellKey("female", "women_hard_acc", "w_bags"): {
			BuyPct: 10, SalesPct: 9, BuyProposed: 12,
			OtbProposed:  decimal.NewFromInt(120_000),
			OtbSubmitted: decimal.NewFromInt(100_000),
			BuyActual:    11,
		},
		domain.CellKey("female", "women_hard_acc", "w_belts"): {
			BuyPct: 5, SalesPct: 6, BuyProposed: 4,
			OtbProposed:  decimal.NewFromInt(40_000),
			OtbSubmitted: decimal.NewFromInt(50_000),
			BuyActual:    5,
		},
	}
	rollup := NewRollup(testTree(), func(key string) domain.CellMetrics { return cells[key] })

	totals := rollup.CategoryTotals("female", "women_hard_acc")

	assert.Equal(t, 15.0, totals.BuyPct)
	assert.Equal(t, 15.0, totals.SalesPct)
	assert.Equal(t, 16.0, totals.BuyProposed)
	assert.True(t, totals.OtbProposed.Equal(decimal.NewFromInt(160_000)))
	assert.True(t, totals.OtbSubmitted.Equal(decimal.NewFromInt(150_000)))
	assert.Equal(t, 16.0, totals.BuyActual)

	// var считается по суммам, а не суммой полистовых отклонений
	assert.Equal(t, 1.0, totals.VarPct)
	assert.Equal(t, AggregateStPct, totals.StPct)
}

func TestGenderTotalsSumsCategories(t *testing.T) {
	cells := map[string]domain.CellMetrics{
		domain.CellKey("female", "women_hard_acc", "w_bags"):  {BuyProposed: 12, SalesPct: 9},
		domain.CellKey("female", "women_hard_acc", "w_belts"): {BuyProposed: 4, SalesPct: 6},
		domain.CellKey("female", "women_shoes", "w_heels"):    {BuyProposed: 30, SalesPct: 28},
	}
	rollup := NewRollup(testTree(), func(key string) domain.CellMetrics { return cells[key] })

	totals := rollup.GenderTotals("female")

	assert.Equal(t, 46.0, totals.BuyProposed)
	assert.Equal(t, 43.0, totals.SalesPct)
	assert.Equal(t, 3.0, totals.VarPct)
	assert.Equal(t, AggregateStPct, totals.StPct)
}

func TestRollupUnknownDimension(t *testing.T) {
	rollup := NewRollup(testTree(), func(string) domain.CellMetrics { return domain.CellMetrics{} })

	totals := rollup.CategoryTotals("female", "no_such_category")
	assert.Equal(t, 0.0, totals.BuyProposed)

	totals = rollup.GenderTotals("no_such_gender")
	assert.Equal(t, 0.0, totals.BuyProposed)
}

func TestComputeGrandTotals(t *testing.T) {
	items := []*domain.PlanningLineItem{
		{SystemBuyPct: 10, LastSeasonSalesPct: 8, UserBuyPct: 12, OtbValue: decimal.NewFromInt(100)},
		{SystemBuyPct: 20, LastSeasonSalesPct: 22, UserBuyPct: 18, OtbValue: decimal.NewFromInt(300)},
	}

	totals := ComputeGrandTotals(items)

	assert.Equal(t, 30.0, totals.SystemBuyPct)
	assert.Equal(t, 30.0, totals.LastSeasonSalesPct)
	assert.Equal(t, 30.0, totals.UserBuyPct)
	assert.True(t, totals.OtbValue.Equal(decimal.NewFromInt(400)))
}

func TestComputeStoreAggregateIsMean(t *testing.T) {
	items := []*domain.PlanningLineItem{
		{StoreID: "s1", SystemBuyPct: 10, LastSeasonSalesPct: 8, UserBuyPct: 12},
		{StoreID: "s1", SystemBuyPct: 20, LastSeasonSalesPct: 12, UserBuyPct: 18},
		{StoreID: "s2", SystemBuyPct: 99, LastSeasonSalesPct: 99, UserBuyPct: 99},
	}

	agg := ComputeStoreAggregate(items, "s1")

	assert.Equal(t, 2, agg.Count)
	assert.Equal(t, 15.0, agg.BuyPct)
	assert.Equal(t, 10.0, agg.SalesPct)
	assert.Equal(t, 15.0, agg.UserBuy)
}

func TestComputeStoreAggregateEmptySubset(t *testing.T) {
	items := []*domain.PlanningLineItem{
		{StoreID: "s1", SystemBuyPct: 10},
	}

	agg := ComputeStoreAggregate(items, "missing")

	assert.Equal(t, 0, agg.Count)
	assert.Equal(t, 0.0, agg.BuyPct)
}
