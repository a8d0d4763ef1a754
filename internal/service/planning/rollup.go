package planning

import (
	"github.com/shopspring/decimal"

	"github.com/TCDevop/otb-planning/internal/domain"
)

// AggregateStPct — sell-through на агрегатных уровнях показывается
// фиксированной константой, а не взвешенным средним.
// TODO(merch): подтвердить с продуктом, правило это или заглушка.
const AggregateStPct = 75.0

// CellReader — активная карта ячеек (черновик или замороженная версия).
type CellReader func(key string) domain.CellMetrics

// Rollup — чистые функции над активной картой ячеек и деревом измерений.
// Ничего не кэширует, производные значения считаются на каждом чтении.
// Порядок обхода всегда совпадает с порядком вставки в дерево.
type Rollup struct {
	tree  *domain.DimensionTree
	cells CellReader
}

func NewRollup(tree *domain.DimensionTree, cells CellReader) Rollup {
	return Rollup{tree: tree, cells: cells}
}

// SubCategory — листовой уровень, дальше сворачивать нечего.
func (r Rollup) SubCategory(genderID, categoryID, subCategoryID string) domain.CellMetrics {
	return r.cells(domain.CellKey(genderID, categoryID, subCategoryID))
}

// CategoryTotals — поэлементная сумма по подкатегориям категории.
// VarPct считается по суммам, а не суммой полистовых отклонений.
func (r Rollup) CategoryTotals(genderID, categoryID string) domain.CellMetrics {
	total := domain.CellMetrics{}

	category := r.tree.Category(genderID, categoryID)
	if category == nil {
		return withAggregates(total)
	}

	for _, sub := range category.Children {
		total = total.Add(r.SubCategory(genderID, categoryID, sub.ID))
	}

	return withAggregates(total)
}

func (r Rollup) GenderTotals(genderID string) domain.CellMetrics {
	total := domain.CellMetrics{}

	gender := r.tree.Gender(genderID)
	if gender == nil {
		return withAggregates(total)
	}

	for _, category := range gender.Children {
		total = total.Add(r.CategoryTotals(genderID, category.ID))
	}

	return withAggregates(total)
}

func withAggregates(total domain.CellMetrics) domain.CellMetrics {
	total.StPct = AggregateStPct
	total.VarPct = total.BuyProposed - total.SalesPct
	return total
}

// GrandTotals — сводка по всей бюджетной строке, отдельный агрегат от
// сверток по дереву: суммирует все строки планирования независимо от
// активной вкладки измерений.
type GrandTotals struct {
	SystemBuyPct       float64         `json:"system_buy_pct"`
	LastSeasonSalesPct float64         `json:"last_season_sales_pct"`
	UserBuyPct         float64         `json:"user_buy_pct"`
	OtbValue           decimal.Decimal `json:"otb_value"`
}

func ComputeGrandTotals(items []*domain.PlanningLineItem) GrandTotals {
	totals := GrandTotals{OtbValue: decimal.Zero}
	for _, item := range items {
		totals.SystemBuyPct += item.SystemBuyPct
		totals.LastSeasonSalesPct += item.LastSeasonSalesPct
		totals.UserBuyPct += item.UserBuyPct
		totals.OtbValue = totals.OtbValue.Add(item.OtbValue)
	}
	return totals
}

// StoreAggregate — агрегат вкладки Collection/Gender по одному магазину:
// арифметическое среднее с равным весом на строку.
type StoreAggregate struct {
	StoreID  string  `json:"store_id"`
	BuyPct   float64 `json:"buy_pct"`
	SalesPct float64 `json:"sales_pct"`
	UserBuy  float64 `json:"user_buy_pct"`
	Count    int     `json:"count"`
}

func ComputeStoreAggregate(items []*domain.PlanningLineItem, storeID string) StoreAggregate {
	agg := StoreAggregate{StoreID: storeID}

	for _, item := range items {
		if item.StoreID != storeID {
			continue
		}
		agg.BuyPct += item.SystemBuyPct
		agg.SalesPct += item.LastSeasonSalesPct
		agg.UserBuy += item.UserBuyPct
		agg.Count++
	}

	// пустое подмножество оставляем суммой, чтобы не делить на ноль
	if agg.Count == 0 {
		return agg
	}

	n := float64(agg.Count)
	agg.BuyPct /= n
	agg.SalesPct /= n
	agg.UserBuy /= n

	return agg
}
