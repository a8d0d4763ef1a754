package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/domain/dto"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
	"github.com/TCDevop/otb-planning/internal/pkg/store"
	"github.com/TCDevop/otb-planning/internal/service/approval"
	"github.com/TCDevop/otb-planning/internal/service/dimension"
)

type Service struct {
	store store.Store
	dims  *dimension.Service
}

func NewService(store store.Store, dims *dimension.Service) *Service {
	return &Service{store: store, dims: dims}
}

type SubCategoryRow struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Metrics domain.CellMetrics `json:"metrics"`
}

type CategoryRow struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Totals        domain.CellMetrics `json:"totals"`
	SubCategories []SubCategoryRow   `json:"sub_categories"`
}

type GenderRow struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Totals     domain.CellMetrics `json:"totals"`
	Categories []CategoryRow      `json:"categories"`
}

type VersionView struct {
	*domain.PlanningVersion
	Progress domain.ApprovalProgress `json:"progress"`
}

// View — снимок сессии планирования для экрана деталей: активные
// ячейки, свертки по дереву, сводные итоги и список версий.
type View struct {
	BudgetDetailID  string           `json:"budget_detail_id"`
	SelectedVersion string           `json:"selected_version"`
	Editable        bool             `json:"editable"`
	Comment         string           `json:"comment"`
	Genders         []GenderRow      `json:"genders"`
	GrandTotals     GrandTotals      `json:"grand_totals"`
	StoreAggregates []StoreAggregate `json:"store_aggregates"`
	Versions        []VersionView    `json:"versions"`
}

// openSession загружает черновик и версии; отсутствие черновика — не
// ошибка, строка планируется впервые и начинает с пустого черновика.
func (s *Service) openSession(ctx context.Context, budgetDetailID string) (*Session, error) {
	draft, err := s.store.GetDraft(ctx, budgetDetailID)
	if errors.Is(err, constants.ErrDBNotFound) {
		detail, detailErr := s.store.GetBudgetDetail(ctx, budgetDetailID)
		if detailErr != nil {
			return nil, fmt.Errorf("store.GetBudgetDetail: %w", detailErr)
		}
		draft = domain.NewPlanningDraft(budgetDetailID, detail.LineBudget)
	} else if err != nil {
		return nil, fmt.Errorf("store.GetDraft: %w", err)
	}

	versions, err := s.store.ListVersionsByBudgetDetailID(ctx, budgetDetailID)
	if err != nil {
		return nil, fmt.Errorf("store.ListVersionsByBudgetDetailID: %w", err)
	}

	return NewSession(draft, versions), nil
}

func (s *Service) buildView(ctx context.Context, session *Session) (*View, error) {
	tree, err := s.dims.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("dims.Tree: %w", err)
	}

	items, err := s.store.ListLineItems(ctx, session.Draft().BudgetDetailID)
	if err != nil {
		return nil, fmt.Errorf("store.ListLineItems: %w", err)
	}

	rollup := NewRollup(tree, session.Cell)

	view := &View{
		BudgetDetailID:  session.Draft().BudgetDetailID,
		SelectedVersion: session.Selected(),
		Editable:        session.Editable(),
		Comment:         session.Draft().Comment,
		GrandTotals:     ComputeGrandTotals(items),
		StoreAggregates: storeAggregates(items),
	}

	for _, gender := range tree.Genders {
		genderRow := GenderRow{
			ID:     gender.ID,
			Name:   gender.Name,
			Totals: rollup.GenderTotals(gender.ID),
		}
		for _, category := range gender.Children {
			categoryRow := CategoryRow{
				ID:     category.ID,
				Name:   category.Name,
				Totals: rollup.CategoryTotals(gender.ID, category.ID),
			}
			for _, sub := range category.Children {
				categoryRow.SubCategories = append(categoryRow.SubCategories, SubCategoryRow{
					ID:      sub.ID,
					Name:    sub.Name,
					Metrics: rollup.SubCategory(gender.ID, category.ID, sub.ID),
				})
			}
			genderRow.Categories = append(genderRow.Categories, categoryRow)
		}
		view.Genders = append(view.Genders, genderRow)
	}

	for _, version := range session.Versions() {
		view.Versions = append(view.Versions, VersionView{
			PlanningVersion: version,
			Progress:        approval.Progress(version),
		})
	}

	return view, nil
}

// storeAggregates считает средние по каждому магазину в порядке первого
// появления в строках планирования.
func storeAggregates(items []*domain.PlanningLineItem) []StoreAggregate {
	seen := make(map[string]struct{})
	aggregates := make([]StoreAggregate, 0, 8)

	for _, item := range items {
		if item.StoreID == "" {
			continue
		}
		if _, ok := seen[item.StoreID]; ok {
			continue
		}
		seen[item.StoreID] = struct{}{}
		aggregates = append(aggregates, ComputeStoreAggregate(items, item.StoreID))
	}

	return aggregates
}

func (s *Service) GetPlanning(ctx context.Context, budgetDetailID string) (*View, error) {
	session, err := s.openSession(ctx, budgetDetailID)
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, session)
}

// SetProposed правит предлагаемую долю закупки ячейки черновика.
// Против замороженной версии операция штатно вырождается в no-op,
// клиент получает актуальный снимок без изменений.
func (s *Service) SetProposed(ctx context.Context, budgetDetailID, key string, value float64) (*View, error) {
	if value < 0 || value > 100 {
		return nil, constants.ErrBadProposedValue
	}

	session, err := s.openSession(ctx, budgetDetailID)
	if err != nil {
		return nil, err
	}

	if !session.Editable() {
		logger.Warnf(ctx, "set_proposed ignored, budget_detail_id-%s: selected version %s is frozen", budgetDetailID, session.Selected())
		return s.buildView(ctx, session)
	}

	session.SetProposed(key, value)

	if err = s.store.SaveDraft(ctx, session.Draft(), session.LoadedAt()); err != nil {
		return nil, fmt.Errorf("store.SaveDraft: %w", err)
	}

	return s.buildView(ctx, session)
}

func (s *Service) SetComment(ctx context.Context, budgetDetailID, comment string) (*View, error) {
	session, err := s.openSession(ctx, budgetDetailID)
	if err != nil {
		return nil, err
	}

	if session.Editable() {
		session.SetComment(comment)
		if err = s.store.SaveDraft(ctx, session.Draft(), session.LoadedAt()); err != nil {
			return nil, fmt.Errorf("store.SaveDraft: %w", err)
		}
	}

	return s.buildView(ctx, session)
}

// Select переключает активный источник чтения и запоминает выбор.
func (s *Service) Select(ctx context.Context, budgetDetailID, idOrDraft string) (*View, error) {
	session, err := s.openSession(ctx, budgetDetailID)
	if err != nil {
		return nil, err
	}

	session.SelectVersion(idOrDraft)

	if err = s.store.SaveDraftMeta(ctx, session.Draft()); err != nil {
		return nil, fmt.Errorf("store.SaveDraftMeta: %w", err)
	}

	return s.buildView(ctx, session)
}

// Save выгружает черновик плоскими строками для внешнего формата
// хранения. Ключи ячеек не парсятся, обход идёт по дереву — id
// измерений сами содержат подчёркивания.
func (s *Service) Save(ctx context.Context, budgetDetailID string) ([]*dto.PlanningRecordDto, error) {
	session, err := s.openSession(ctx, budgetDetailID)
	if err != nil {
		return nil, err
	}

	tree, err := s.dims.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("dims.Tree: %w", err)
	}

	draft := session.Draft()
	records := make([]*dto.PlanningRecordDto, 0, len(draft.Cells))

	for _, gender := range tree.Genders {
		for _, category := range gender.Children {
			for _, sub := range category.Children {
				cell, ok := draft.Cells[domain.CellKey(gender.ID, category.ID, sub.ID)]
				if !ok {
					continue
				}
				records = append(records, dto.RecordFromCell(gender.ID, category.ID, sub.ID, draft.Comment, *cell))
			}
		}
	}

	// ячейки вкладки Collection/Gender перечисляются по строкам
	// планирования: дерево категорий про секции и магазины не знает
	items, err := s.store.ListLineItems(ctx, budgetDetailID)
	if err != nil {
		return nil, fmt.Errorf("store.ListLineItems: %w", err)
	}

	seen := make(map[string]struct{})
	for _, item := range items {
		if item.SectionID == "" || item.StoreID == "" {
			continue
		}
		key := domain.StoreCellKey(item.SectionID, item.StoreID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		cell, ok := draft.Cells[key]
		if !ok {
			continue
		}
		record := dto.RecordFromCell("", "", "", draft.Comment, *cell)
		record.DimensionType = dto.DimensionTypeStore
		record.CollectionID = item.CollectionID
		record.SectionID = item.SectionID
		record.StoreID = item.StoreID
		records = append(records, record)
	}

	if err = s.store.UpsertPlanningRecords(ctx, budgetDetailID, records); err != nil {
		return nil, fmt.Errorf("store.UpsertPlanningRecords: %w", err)
	}

	return records, nil
}

// Approve замораживает черновик в новую версию с ростером согласующих
// из внешнего источника авторизации.
func (s *Service) Approve(ctx context.Context, budgetDetailID, userID string) (*domain.PlanningVersion, error) {
	session, err := s.openSession(ctx, budgetDetailID)
	if err != nil {
		return nil, err
	}

	roster, err := s.store.GetApproverRoster(ctx, budgetDetailID)
	if err != nil {
		return nil, fmt.Errorf("store.GetApproverRoster: %w", err)
	}

	version, err := session.Approve(roster, userID)
	if err != nil {
		return nil, err
	}

	if err = s.store.InsertVersion(ctx, version); err != nil {
		logger.Errorf(ctx, "store.InsertVersion, budget_detail_id-%s: %s", budgetDetailID, err.Error())
		return nil, fmt.Errorf("store.InsertVersion: %w", err)
	}

	// версия сразу становится выбранной, пользователь видит заморозку
	if err = s.store.SaveDraftMeta(ctx, session.Draft()); err != nil {
		return nil, fmt.Errorf("store.SaveDraftMeta: %w", err)
	}

	return version, nil
}
