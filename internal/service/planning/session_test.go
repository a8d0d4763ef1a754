package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

func newTestSession(lineBudget int64) *Session {
	draft := domain.NewPlanningDraft("bd-1", decimal.NewFromInt(lineBudget))
	return NewSession(draft, nil)
}

func testRoster() domain.ApproverRoster {
	return domain.ApproverRoster{
		Level1: []string{"alice", "bob"},
		Level2: []string{"carol"},
	}
}

func TestSetProposedRecalculatesDerived(t *testing.T) {
	session := newTestSession(1_000_000)
	key := domain.CellKey("female", "women_hard_acc", "w_bags")

	session.SeedCell(key, domain.CellMetrics{SalesPct: 9})
	session.SetProposed(key, 12)

	cell := session.Cell(key)
	assert.Equal(t, 12.0, cell.BuyProposed)
	assert.True(t, cell.OtbProposed.Equal(decimal.NewFromInt(120_000)),
		"otb_proposed = 12%% от 1_000_000, got %s", cell.OtbProposed)
	assert.Equal(t, 3.0, cell.VarPct)
}

func TestSetProposedCreatesMissingCell(t *testing.T) {
	session := newTestSession(500_000)
	key := domain.CellKey("male", "shoes", "m_sneakers")

	session.SetProposed(key, 20)

	cell := session.Cell(key)
	assert.Equal(t, 20.0, cell.BuyProposed)
	assert.True(t, cell.OtbProposed.Equal(decimal.NewFromInt(100_000)))
	assert.Equal(t, 20.0, cell.VarPct)
}

func TestCellUnknownKeyReturnsZero(t *testing.T) {
	session := newTestSession(1_000_000)

	cell := session.Cell("female_women_soft_acc_w_scarves")

	assert.Equal(t, domain.CellMetrics{}, cell)
}

func TestApproveNumbersAreDenseAndDataIsolated(t *testing.T) {
	session := newTestSession(1_000_000)
	key := domain.CellKey("female", "women_hard_acc", "w_bags")

	session.SetProposed(key, 10)
	v1, err := session.Approve(testRoster(), "planner")
	require.NoError(t, err)
	assert.Equal(t, 1, v1.VersionNumber)

	// правки черновика после approve не должны трогать замороженную версию
	session.SelectVersion(domain.SelectionDraft)
	session.SetProposed(key, 40)
	assert.Equal(t, 10.0, v1.Data[key].BuyProposed)

	v2, err := session.Approve(testRoster(), "planner")
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)
	assert.Equal(t, 40.0, v2.Data[key].BuyProposed)
	assert.Equal(t, 10.0, v1.Data[key].BuyProposed)
}

func TestApproveAutoSelectsAndFreezes(t *testing.T) {
	session := newTestSession(1_000_000)
	key := domain.CellKey("female", "women_hard_acc", "w_bags")
	session.SetProposed(key, 15)

	version, err := session.Approve(testRoster(), "planner")
	require.NoError(t, err)

	assert.Equal(t, version.ID, session.Selected())
	assert.False(t, session.Editable())

	// мутация против замороженной версии — молчаливый no-op
	session.SetProposed(key, 99)
	assert.Equal(t, 15.0, session.Cell(key).BuyProposed)
	assert.Equal(t, 15.0, version.Data[key].BuyProposed)

	session.SelectVersion(domain.SelectionDraft)
	assert.Equal(t, 15.0, session.Draft().Cells[key].BuyProposed)
}

func TestApproveSeedsApprovalStatuses(t *testing.T) {
	session := newTestSession(1_000_000)

	version, err := session.Approve(testRoster(), "planner")
	require.NoError(t, err)

	assert.Equal(t, domain.VersionStatusPendingReview, version.Status)
	require.Len(t, version.Approvals.Level1, 2)
	require.Len(t, version.Approvals.Level2, 1)
	for _, entry := range version.Approvals.Level1 {
		assert.Equal(t, domain.ApprovalStatusPending, entry.Status)
	}
	assert.Equal(t, domain.ApprovalStatusWaiting, version.Approvals.Level2[0].Status)
}

func TestApproveWithoutLevel1StartsLevel2Pending(t *testing.T) {
	session := newTestSession(1_000_000)

	version, err := session.Approve(domain.ApproverRoster{Level2: []string{"carol"}}, "planner")
	require.NoError(t, err)

	assert.Equal(t, domain.ApprovalStatusPending, version.Approvals.Level2[0].Status)
}

func TestApproveEmptyRoster(t *testing.T) {
	session := newTestSession(1_000_000)

	_, err := session.Approve(domain.ApproverRoster{}, "planner")
	assert.ErrorIs(t, err, constants.ErrEmptyRoster)
}

func TestSelectVersionStaleFallsBackToDraft(t *testing.T) {
	session := newTestSession(1_000_000)

	session.SelectVersion("gone")
	assert.Equal(t, domain.SelectionDraft, session.Selected())
	assert.True(t, session.Editable())
}

func TestStaleSelectionFromStorageFallsBackToDraft(t *testing.T) {
	draft := domain.NewPlanningDraft("bd-1", decimal.NewFromInt(1_000_000))
	draft.SelectedVersion = "deleted-version-id"

	session := NewSession(draft, nil)

	assert.Equal(t, domain.SelectionDraft, session.Selected())
}

func TestCellReadsFromSelectedVersion(t *testing.T) {
	session := newTestSession(1_000_000)
	key := domain.CellKey("female", "women_hard_acc", "w_bags")
	session.SetProposed(key, 25)

	version, err := session.Approve(testRoster(), "planner")
	require.NoError(t, err)

	session.SelectVersion(domain.SelectionDraft)
	session.SetProposed(key, 60)

	session.SelectVersion(version.ID)
	assert.Equal(t, 25.0, session.Cell(key).BuyProposed)

	session.SelectVersion(domain.SelectionDraft)
	assert.Equal(t, 60.0, session.Cell(key).BuyProposed)
}
