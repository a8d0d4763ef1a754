package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/domain/dto"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
)

var (
	budgetDetailColumns = []string{"id", "season_id", "store_id", "line_budget", "created_at", "updated_at"}
	draftColumns        = []string{"budget_detail_id", "line_budget", "comment", "selected_version", "updated_at"}
	draftCellColumns    = []string{
		"budget_detail_id", "cell_key",
		"buy_pct", "sales_pct", "st_pct", "buy_proposed", "otb_proposed", "var_pct", "otb_submitted", "buy_actual",
	}
	lineItemColumns = []string{
		"gender_id", "collection_id", "category_id", "section_id", "store_id",
		"system_buy_pct", "last_season_sales_pct", "user_buy_pct", "otb_value", "variance_vs_last_season_pct",
	}
)

func (s *store) GetBudgetDetail(ctx context.Context, id string) (*domain.BudgetDetail, error) {
	query := builder().Select(budgetDetailColumns...).
		From(tableBudgetDetails).
		Where(sq.Eq{"id": id})

	var selected domain.BudgetDetail
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) GetDraft(ctx context.Context, budgetDetailID string) (*domain.PlanningDraft, error) {
	metaQuery := builder().Select(draftColumns...).
		From(tableDrafts).
		Where(sq.Eq{"budget_detail_id": budgetDetailID})

	var meta struct {
		BudgetDetailID  string          `db:"budget_detail_id"`
		LineBudget      decimal.Decimal `db:"line_budget"`
		Comment         string          `db:"comment"`
		SelectedVersion string          `db:"selected_version"`
		UpdatedAt       time.Time       `db:"updated_at"`
	}
	if err := s.pool.Getx(ctx, &meta, metaQuery); err != nil {
		return nil, wrapErr(err)
	}

	draft := domain.NewPlanningDraft(meta.BudgetDetailID, meta.LineBudget)
	draft.Comment = meta.Comment
	draft.SelectedVersion = meta.SelectedVersion
	draft.UpdatedAt = meta.UpdatedAt

	cellsQuery := builder().Select(draftCellColumns[1:]...).
		From(tableDraftCells).
		Where(sq.Eq{"budget_detail_id": budgetDetailID})

	var cells []*draftCellRow
	if err := s.pool.Selectx(ctx, &cells, cellsQuery); err != nil {
		return nil, wrapErr(err)
	}

	for _, row := range cells {
		cell := row.CellMetrics
		draft.Cells[row.CellKey] = &cell
	}

	return draft, nil
}

type draftCellRow struct {
	CellKey string `db:"cell_key"`
	domain.CellMetrics
}

// SaveDraft сохраняет мета-строку с guard'ом по updated_at и целиком
// перезаписывает ячейки. Расхождение updated_at означает параллельную
// правку черновика другим пользователем.
func (s *store) SaveDraft(ctx context.Context, draft *domain.PlanningDraft, expectedUpdatedAt time.Time) error {
	metaQuery := builder().Insert(tableDrafts).
		Columns(draftColumns...).
		Values(draft.BudgetDetailID, draft.LineBudget, draft.Comment, draft.SelectedVersion, sq.Expr("now()")).
		Suffix(`
on conflict (budget_detail_id)
do update
set
	comment = excluded.comment,
	selected_version = excluded.selected_version,
	updated_at = now()
where planning_drafts.updated_at = ?`, expectedUpdatedAt)

	tag, err := s.pool.Execx(ctx, metaQuery)
	if err != nil {
		logger.Errorf(ctx, "SaveDraft meta, budget_detail_id-%s: %s", draft.BudgetDetailID, err.Error())
		return err
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrStaleDraft
	}

	deleteQuery := builder().Delete(tableDraftCells).
		Where(sq.Eq{"budget_detail_id": draft.BudgetDetailID})
	if _, err = s.pool.Execx(ctx, deleteQuery); err != nil {
		return fmt.Errorf("delete draft cells: %w", err)
	}

	if len(draft.Cells) == 0 {
		return nil
	}

	insertQuery := builder().Insert(tableDraftCells).Columns(draftCellColumns...)
	for key, cell := range draft.Cells {
		insertQuery = insertQuery.Values(
			draft.BudgetDetailID, key,
			cell.BuyPct, cell.SalesPct, cell.StPct, cell.BuyProposed,
			cell.OtbProposed, cell.VarPct, cell.OtbSubmitted, cell.BuyActual,
		)
	}

	if _, err = s.pool.Execx(ctx, insertQuery); err != nil {
		logger.Errorf(ctx, "SaveDraft cells, budget_detail_id-%s: %s", draft.BudgetDetailID, err.Error())
		return fmt.Errorf("insert draft cells: %w", err)
	}

	return nil
}

// SaveDraftMeta фиксирует выбор версии/комментарий, не трогая ячейки и
// updated_at: смена выбора не считается правкой данных.
func (s *store) SaveDraftMeta(ctx context.Context, draft *domain.PlanningDraft) error {
	query := builder().Insert(tableDrafts).
		Columns(draftColumns...).
		Values(draft.BudgetDetailID, draft.LineBudget, draft.Comment, draft.SelectedVersion, sq.Expr("now()")).
		Suffix(`
on conflict (budget_detail_id)
do update
set selected_version = excluded.selected_version`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return err
	}

	return nil
}

func (s *store) ListLineItems(ctx context.Context, budgetDetailID string) ([]*domain.PlanningLineItem, error) {
	query := builder().Select(lineItemColumns...).
		From(tableLineItems).
		Where(sq.Eq{"budget_detail_id": budgetDetailID}).
		OrderBy("position")

	var selected []*domain.PlanningLineItem
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

var planningRecordColumns = []string{
	"budget_detail_id", "dimension_type", "collection_id", "gender_id", "category_id", "sub_category_id",
	"section_id", "store_id",
	"last_season_sales", "last_season_pct", "system_buy_pct", "user_buy_pct", "user_comment",
}

func (s *store) UpsertPlanningRecords(ctx context.Context, budgetDetailID string, records []*dto.PlanningRecordDto) error {
	if len(records) == 0 {
		return nil
	}

	query := builder().Insert(tablePlanningRecords).Columns(planningRecordColumns...)
	for _, r := range records {
		query = query.Values(
			budgetDetailID, r.DimensionType, r.CollectionID, r.GenderID, r.CategoryID, r.SubCategoryID,
			r.SectionID, r.StoreID,
			r.LastSeasonSales, r.LastSeasonPct, r.SystemBuyPct, r.UserBuyPct, r.UserComment,
		)
	}

	query = query.Suffix(`
on conflict (budget_detail_id, dimension_type, collection_id, gender_id, category_id, sub_category_id, section_id, store_id)
do update
set
	last_season_sales = excluded.last_season_sales,
	last_season_pct = excluded.last_season_pct,
	system_buy_pct = excluded.system_buy_pct,
	user_buy_pct = excluded.user_buy_pct,
	user_comment = excluded.user_comment`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		logger.Error(ctx, err.Error())
		return err
	}

	return nil
}
