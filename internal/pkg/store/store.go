package store

import (
	"context"
	"time"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/domain/dto"
	"github.com/TCDevop/otb-planning/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	GetBudgetDetail(ctx context.Context, id string) (*domain.BudgetDetail, error)

	GetDraft(ctx context.Context, budgetDetailID string) (*domain.PlanningDraft, error)
	SaveDraft(ctx context.Context, draft *domain.PlanningDraft, expectedUpdatedAt time.Time) error
	SaveDraftMeta(ctx context.Context, draft *domain.PlanningDraft) error

	InsertVersion(ctx context.Context, version *domain.PlanningVersion) error
	GetVersionByID(ctx context.Context, id string) (*domain.PlanningVersion, error)
	ListVersionsByBudgetDetailID(ctx context.Context, budgetDetailID string) ([]*domain.PlanningVersion, error)
	SaveVersionApprovals(ctx context.Context, version *domain.PlanningVersion) error

	GetApproverRoster(ctx context.Context, budgetDetailID string) (domain.ApproverRoster, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUserPermissions(ctx context.Context, userID string) ([]domain.Permission, error)

	ListCategoryRows(ctx context.Context) ([]*dto.CategoryRowDto, error)
	ReplaceCategoryRows(ctx context.Context, rows []*dto.CategoryRowDto) error

	ListLineItems(ctx context.Context, budgetDetailID string) ([]*domain.PlanningLineItem, error)
	UpsertPlanningRecords(ctx context.Context, budgetDetailID string, records []*dto.PlanningRecordDto) error
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
