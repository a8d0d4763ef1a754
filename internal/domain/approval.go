package domain

import "time"

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	// ApprovalStatusWaiting — level-2 до того, как весь level-1 согласован.
	ApprovalStatusWaiting ApprovalStatus = "waiting"
)

type ApprovalLevel int

const (
	ApprovalLevel1 ApprovalLevel = 1
	ApprovalLevel2 ApprovalLevel = 2
)

type ApprovalEntry struct {
	ID         string         `json:"id" db:"id"`
	ApproverID string         `json:"approver_id" db:"approver_id"`
	Status     ApprovalStatus `json:"status" db:"status"`
	Comment    string         `json:"comment" db:"comment"`
	ApprovedAt *time.Time     `json:"approved_at" db:"approved_at"`
}

type ApprovalSet struct {
	Level1 []*ApprovalEntry `json:"level1"`
	Level2 []*ApprovalEntry `json:"level2"`
}

func (s ApprovalSet) AtLevel(level ApprovalLevel) []*ApprovalEntry {
	if level == ApprovalLevel2 {
		return s.Level2
	}
	return s.Level1
}

// ApproverRoster — явный список согласующих, берётся из внешнего
// источника авторизации, а не из ранее созданных версий.
type ApproverRoster struct {
	Level1 []string `json:"level1"`
	Level2 []string `json:"level2"`
}

func (r ApproverRoster) Empty() bool {
	return len(r.Level1) == 0 && len(r.Level2) == 0
}

// ApprovalProgress — производное состояние версии для координатора.
type ApprovalProgress struct {
	IsFullyApproved bool `json:"is_fully_approved"`
	IsRejected      bool `json:"is_rejected"`
	Level2Unlocked  bool `json:"level2_unlocked"`
}
