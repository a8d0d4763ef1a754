package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellMetrics — метрики одной ячейки планирования. Единственное
// редактируемое поле — BuyProposed; OtbProposed и VarPct всегда
// пересчитываются из него и не хранятся как независимые значения.
type CellMetrics struct {
	BuyPct       float64         `json:"buy_pct" db:"buy_pct"`
	SalesPct     float64         `json:"sales_pct" db:"sales_pct"`
	StPct        float64         `json:"st_pct" db:"st_pct"`
	BuyProposed  float64         `json:"buy_proposed" db:"buy_proposed"`
	OtbProposed  decimal.Decimal `json:"otb_proposed" db:"otb_proposed"`
	VarPct       float64         `json:"var_pct" db:"var_pct"`
	OtbSubmitted decimal.Decimal `json:"otb_submitted" db:"otb_submitted"`
	BuyActual    float64         `json:"buy_actual" db:"buy_actual"`
}

// Add возвращает поэлементную сумму, StPct не суммируется.
func (m CellMetrics) Add(other CellMetrics) CellMetrics {
	return CellMetrics{
		BuyPct:       m.BuyPct + other.BuyPct,
		SalesPct:     m.SalesPct + other.SalesPct,
		BuyProposed:  m.BuyProposed + other.BuyProposed,
		OtbProposed:  m.OtbProposed.Add(other.OtbProposed),
		OtbSubmitted: m.OtbSubmitted.Add(other.OtbSubmitted),
		BuyActual:    m.BuyActual + other.BuyActual,
	}
}

// SelectionDraft — значение selected_version, означающее живой черновик.
const SelectionDraft = "draft"

// PlanningDraft — изменяемая рабочая копия планирования одной бюджетной
// строки. Не удаляется, только вытесняется версиями.
type PlanningDraft struct {
	BudgetDetailID  string                  `json:"budget_detail_id"`
	LineBudget      decimal.Decimal         `json:"line_budget"`
	Cells           map[string]*CellMetrics `json:"cells"`
	Comment         string                  `json:"comment"`
	SelectedVersion string                  `json:"selected_version"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func NewPlanningDraft(budgetDetailID string, lineBudget decimal.Decimal) *PlanningDraft {
	return &PlanningDraft{
		BudgetDetailID:  budgetDetailID,
		LineBudget:      lineBudget,
		Cells:           make(map[string]*CellMetrics),
		SelectedVersion: SelectionDraft,
	}
}

type VersionStatus string

const (
	VersionStatusPendingReview VersionStatus = "pending_review"
	VersionStatusApproved      VersionStatus = "approved"
	VersionStatusRejected      VersionStatus = "rejected"
)

// PlanningVersion — замороженный снимок черновика. Data после создания
// не изменяется; правки черновика после approve расходятся с последней
// версией намеренно.
type PlanningVersion struct {
	ID             string                 `json:"id"`
	BudgetDetailID string                 `json:"budget_detail_id"`
	VersionNumber  int                    `json:"version_number"`
	CreatedAt      time.Time              `json:"created_at"`
	CreatedBy      string                 `json:"created_by"`
	Data           map[string]CellMetrics `json:"data"`
	Comment        string                 `json:"comment"`
	Status         VersionStatus          `json:"status"`
	Approvals      ApprovalSet            `json:"approvals"`
}

// PlanningLineItem — строка планирования от внешнего источника данных,
// читается только для grand totals и агрегатов по магазинам.
type PlanningLineItem struct {
	GenderID                string          `json:"gender_id" db:"gender_id"`
	CollectionID            string          `json:"collection_id" db:"collection_id"`
	CategoryID              string          `json:"category_id" db:"category_id"`
	SectionID               string          `json:"section_id" db:"section_id"`
	StoreID                 string          `json:"store_id" db:"store_id"`
	SystemBuyPct            float64         `json:"system_buy_pct" db:"system_buy_pct"`
	LastSeasonSalesPct      float64         `json:"last_season_sales_pct" db:"last_season_sales_pct"`
	UserBuyPct              float64         `json:"user_buy_pct" db:"user_buy_pct"`
	OtbValue                decimal.Decimal `json:"otb_value" db:"otb_value"`
	VarianceVsLastSeasonPct float64         `json:"variance_vs_last_season_pct" db:"variance_vs_last_season_pct"`
}

// BudgetDetail — бюджетная строка из внешней бюджетной системы,
// источник line budget для пересчёта OTB.
type BudgetDetail struct {
	ID         string          `json:"id" db:"id"`
	SeasonID   string          `json:"season_id" db:"season_id"`
	StoreID    string          `json:"store_id" db:"store_id"`
	LineBudget decimal.Decimal `json:"line_budget" db:"line_budget"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
