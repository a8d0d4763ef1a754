package dto

import (
	"github.com/shopspring/decimal"

	"github.com/TCDevop/otb-planning/internal/domain"
)

type DimensionType string

const (
	DimensionTypeCategory DimensionType = "category"
	DimensionTypeStore    DimensionType = "store"
)

// PlanningRecordDto — плоская строка для сохранения во внешнем формате:
// проценты приводятся из экранной шкалы 0–100 к шкале хранения 0–1.
type PlanningRecordDto struct {
	DimensionType   DimensionType   `json:"dimension_type" db:"dimension_type"`
	CollectionID    string          `json:"collection_id" db:"collection_id"`
	GenderID        string          `json:"gender_id" db:"gender_id"`
	CategoryID      string          `json:"category_id" db:"category_id"`
	SubCategoryID   string          `json:"sub_category_id" db:"sub_category_id"`
	SectionID       string          `json:"section_id" db:"section_id"`
	StoreID         string          `json:"store_id" db:"store_id"`
	LastSeasonSales decimal.Decimal `json:"last_season_sales" db:"last_season_sales"`
	LastSeasonPct   float64         `json:"last_season_pct" db:"last_season_pct"`
	SystemBuyPct    float64         `json:"system_buy_pct" db:"system_buy_pct"`
	UserBuyPct      float64         `json:"user_buy_pct" db:"user_buy_pct"`
	UserComment     string          `json:"user_comment" db:"user_comment"`
}

func toStorageScale(displayPct float64) float64 {
	return displayPct / 100
}

// RecordFromCell собирает строку сохранения из ячейки черновика.
func RecordFromCell(genderID, categoryID, subCategoryID, comment string, cell domain.CellMetrics) *PlanningRecordDto {
	return &PlanningRecordDto{
		DimensionType: DimensionTypeCategory,
		GenderID:      genderID,
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		LastSeasonPct: toStorageScale(cell.SalesPct),
		SystemBuyPct:  toStorageScale(cell.BuyPct),
		UserBuyPct:    toStorageScale(cell.BuyProposed),
		UserComment:   comment,
	}
}
