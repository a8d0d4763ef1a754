package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

func newTestVersion() *domain.PlanningVersion {
	return &domain.PlanningVersion{
		ID:     "v-1",
		Status: domain.VersionStatusPendingReview,
		Approvals: domain.ApprovalSet{
			Level1: []*domain.ApprovalEntry{
				{ID: "e1", ApproverID: "alice", Status: domain.ApprovalStatusPending},
				{ID: "e2", ApproverID: "bob", Status: domain.ApprovalStatusPending},
			},
			Level2: []*domain.ApprovalEntry{
				{ID: "e3", ApproverID: "carol", Status: domain.ApprovalStatusWaiting},
			},
		},
	}
}

func TestLevel2GateUnlocksAfterAllLevel1(t *testing.T) {
	version := newTestVersion()

	// level-2 закрыт, пока level-1 не согласован целиком
	err := Apply(version, domain.ApprovalLevel2, "carol", domain.ApprovalStatusApproved, "")
	assert.ErrorIs(t, err, constants.ErrApprovalGate)

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "alice", domain.ApprovalStatusApproved, "ok"))
	assert.False(t, Progress(version).Level2Unlocked)

	err = Apply(version, domain.ApprovalLevel2, "carol", domain.ApprovalStatusApproved, "")
	assert.ErrorIs(t, err, constants.ErrApprovalGate)

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "bob", domain.ApprovalStatusApproved, ""))
	assert.True(t, Progress(version).Level2Unlocked)

	// после разблокировки waiting переводится в pending
	assert.Equal(t, domain.ApprovalStatusPending, version.Approvals.Level2[0].Status)

	require.NoError(t, Apply(version, domain.ApprovalLevel2, "carol", domain.ApprovalStatusApproved, ""))
	assert.Equal(t, domain.VersionStatusApproved, version.Status)
	assert.True(t, Progress(version).IsFullyApproved)
}

func TestRejectionIsTerminal(t *testing.T) {
	version := newTestVersion()

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "alice", domain.ApprovalStatusRejected, "budget too high"))
	assert.Equal(t, domain.VersionStatusRejected, version.Status)
	assert.True(t, Progress(version).IsRejected)

	// дальнейшие согласования по отклонённой версии невозможны
	err := Apply(version, domain.ApprovalLevel1, "bob", domain.ApprovalStatusApproved, "")
	assert.ErrorIs(t, err, constants.ErrVersionFinalized)

	err = Apply(version, domain.ApprovalLevel2, "carol", domain.ApprovalStatusApproved, "")
	assert.ErrorIs(t, err, constants.ErrVersionFinalized)

	assert.Equal(t, domain.ApprovalStatusPending, version.Approvals.Level1[1].Status)
	assert.Equal(t, domain.ApprovalStatusWaiting, version.Approvals.Level2[0].Status)
}

func TestRejectionAtLevel2IsTerminal(t *testing.T) {
	version := newTestVersion()

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "alice", domain.ApprovalStatusApproved, ""))
	require.NoError(t, Apply(version, domain.ApprovalLevel1, "bob", domain.ApprovalStatusApproved, ""))
	require.NoError(t, Apply(version, domain.ApprovalLevel2, "carol", domain.ApprovalStatusRejected, "no"))

	assert.Equal(t, domain.VersionStatusRejected, version.Status)

	err := Apply(version, domain.ApprovalLevel2, "carol", domain.ApprovalStatusApproved, "")
	assert.ErrorIs(t, err, constants.ErrVersionFinalized)
}

func TestApplyUnknownApprover(t *testing.T) {
	version := newTestVersion()

	err := Apply(version, domain.ApprovalLevel1, "mallory", domain.ApprovalStatusApproved, "")
	assert.ErrorIs(t, err, constants.ErrApproverNotFound)
}

func TestApplyBadStatus(t *testing.T) {
	version := newTestVersion()

	err := Apply(version, domain.ApprovalLevel1, "alice", domain.ApprovalStatusWaiting, "")
	assert.ErrorIs(t, err, constants.ErrBadApprovalStatus)

	err = Apply(version, domain.ApprovalLevel1, "alice", "bogus", "")
	assert.ErrorIs(t, err, constants.ErrBadApprovalStatus)
}

func TestApprovedAtSetOnApproveOnly(t *testing.T) {
	version := newTestVersion()

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "alice", domain.ApprovalStatusApproved, ""))
	assert.NotNil(t, version.Approvals.Level1[0].ApprovedAt)

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "bob", domain.ApprovalStatusRejected, "no"))
	assert.Nil(t, version.Approvals.Level1[1].ApprovedAt)
}

func TestProgressEmptyLevel2(t *testing.T) {
	version := &domain.PlanningVersion{
		Status: domain.VersionStatusPendingReview,
		Approvals: domain.ApprovalSet{
			Level1: []*domain.ApprovalEntry{
				{ID: "e1", ApproverID: "alice", Status: domain.ApprovalStatusPending},
			},
		},
	}

	require.NoError(t, Apply(version, domain.ApprovalLevel1, "alice", domain.ApprovalStatusApproved, ""))

	progress := Progress(version)
	assert.True(t, progress.Level2Unlocked)
	assert.True(t, progress.IsFullyApproved)
	assert.Equal(t, domain.VersionStatusApproved, version.Status)
}
