package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
	"github.com/TCDevop/otb-planning/internal/pkg/store"
)

// Authorizer — булева capability-проверка из внешнего слоя авторизации.
// Координатор сам личность не проверяет, только потребляет ответ.
type Authorizer interface {
	CanApprove(ctx context.Context, userID string, level domain.ApprovalLevel) (bool, error)
}

type Service struct {
	store store.Store
	auth  Authorizer
}

func NewService(store store.Store, auth Authorizer) *Service {
	return &Service{store: store, auth: auth}
}

// Progress — производное представление версии для координатора.
func Progress(v *domain.PlanningVersion) domain.ApprovalProgress {
	return domain.ApprovalProgress{
		IsFullyApproved: allApproved(v.Approvals.Level1) && allApproved(v.Approvals.Level2),
		IsRejected:      anyRejected(v.Approvals.Level1) || anyRejected(v.Approvals.Level2),
		Level2Unlocked:  allApproved(v.Approvals.Level1),
	}
}

// Apply проводит одно согласование по версии in-memory. Гейт здесь
// авторитетный: level-2 закрыт, пока весь level-1 не approved, а
// решённая версия (approved/rejected) больше не меняется — независимо
// от того, что проверял вызывающий UI.
func Apply(v *domain.PlanningVersion, level domain.ApprovalLevel, approverID string, status domain.ApprovalStatus, comment string) error {
	if status != domain.ApprovalStatusApproved && status != domain.ApprovalStatusRejected {
		return constants.ErrBadApprovalStatus
	}

	if v.Status != domain.VersionStatusPendingReview {
		return constants.ErrVersionFinalized
	}

	if level == domain.ApprovalLevel2 && !Progress(v).Level2Unlocked {
		return constants.ErrApprovalGate
	}

	entry := findEntry(v.Approvals.AtLevel(level), approverID)
	if entry == nil {
		return constants.ErrApproverNotFound
	}

	now := time.Now()
	entry.Status = status
	entry.Comment = comment
	if status == domain.ApprovalStatusApproved {
		entry.ApprovedAt = &now
	} else {
		entry.ApprovedAt = nil
	}

	switch {
	case status == domain.ApprovalStatusRejected:
		// отказ на любом уровне терминален для версии
		v.Status = domain.VersionStatusRejected
	case allApproved(v.Approvals.Level1):
		for _, l2 := range v.Approvals.Level2 {
			if l2.Status == domain.ApprovalStatusWaiting {
				l2.Status = domain.ApprovalStatusPending
			}
		}
		if allApproved(v.Approvals.Level2) {
			v.Status = domain.VersionStatusApproved
		}
	}

	return nil
}

// SetApprovalStatus — capability-проверка, гейт, мутация и сохранение.
func (s *Service) SetApprovalStatus(
	ctx context.Context,
	versionID string,
	level domain.ApprovalLevel,
	approverID string,
	status domain.ApprovalStatus,
	comment string,
) (*domain.PlanningVersion, error) {
	allowed, err := s.auth.CanApprove(ctx, approverID, level)
	if err != nil {
		return nil, fmt.Errorf("auth.CanApprove: %w", err)
	}
	if !allowed {
		return nil, constants.ErrForbidden
	}

	version, err := s.store.GetVersionByID(ctx, versionID)
	if err != nil {
		logger.Errorf(ctx, "store.GetVersionByID, version_id-%s: %s", versionID, err.Error())
		return nil, fmt.Errorf("store.GetVersionByID: %w", err)
	}

	if err = Apply(version, level, approverID, status, comment); err != nil {
		return nil, err
	}

	if err = s.store.SaveVersionApprovals(ctx, version); err != nil {
		logger.Errorf(ctx, "store.SaveVersionApprovals, version_id-%s: %s", versionID, err.Error())
		return nil, fmt.Errorf("store.SaveVersionApprovals: %w", err)
	}

	return version, nil
}

func findEntry(entries []*domain.ApprovalEntry, approverID string) *domain.ApprovalEntry {
	for _, entry := range entries {
		if entry.ApproverID == approverID {
			return entry
		}
	}
	return nil
}

func allApproved(entries []*domain.ApprovalEntry) bool {
	for _, entry := range entries {
		if entry.Status != domain.ApprovalStatusApproved {
			return false
		}
	}
	return true
}

func anyRejected(entries []*domain.ApprovalEntry) bool {
	for _, entry := range entries {
		if entry.Status == domain.ApprovalStatusRejected {
			return true
		}
	}
	return false
}
