package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TCDevop/otb-planning/internal/domain"
)

func TestRecordFromCellConvertsToStorageScale(t *testing.T) {
	cell := domain.CellMetrics{
		BuyPct:      10,
		SalesPct:    9,
		BuyProposed: 12,
	}

	record := RecordFromCell("female", "women_hard_acc", "w_bags", "note", cell)

	assert.Equal(t, DimensionTypeCategory, record.DimensionType)
	assert.Equal(t, "female", record.GenderID)
	assert.Equal(t, "women_hard_acc", record.CategoryID)
	assert.Equal(t, "w_bags", record.SubCategoryID)
	assert.Equal(t, "note", record.UserComment)

	// экранная шкала 0–100 приводится к шкале хранения 0–1
	assert.InDelta(t, 0.10, record.SystemBuyPct, 1e-9)
	assert.InDelta(t, 0.09, record.LastSeasonPct, 1e-9)
	assert.InDelta(t, 0.12, record.UserBuyPct, 1e-9)
}
