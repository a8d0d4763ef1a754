package auth

import (
	"context"
	"fmt"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewService(store store.Store) *Service {
	return &Service{store: store}
}

func (svc *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := svc.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("store.GetUserByID: %w", err)
	}

	return user, nil
}

func (svc *Service) HasPermission(ctx context.Context, userID string, permission domain.Permission) (bool, error) {
	permissions, err := svc.store.ListUserPermissions(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("store.ListUserPermissions: %w", err)
	}

	for _, p := range permissions {
		if p == permission {
			return true, nil
		}
	}

	return false, nil
}

// CanApprove — булева capability для координатора согласований.
func (svc *Service) CanApprove(ctx context.Context, userID string, level domain.ApprovalLevel) (bool, error) {
	permission := domain.PermissionPlanningApproveL1
	if level == domain.ApprovalLevel2 {
		permission = domain.PermissionPlanningApproveL2
	}

	return svc.HasPermission(ctx, userID, permission)
}
