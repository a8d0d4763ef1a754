package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
)

var (
	versionColumns = []string{"id", "budget_detail_id", "version_number", "created_at", "created_by", "comment", "status", "data"}
	entryColumns   = []string{"id", "version_id", "level", "position", "approver_id", "status", "comment", "approved_at"}
)

type versionRow struct {
	ID             string    `db:"id"`
	BudgetDetailID string    `db:"budget_detail_id"`
	VersionNumber  int       `db:"version_number"`
	CreatedAt      time.Time `db:"created_at"`
	CreatedBy      string    `db:"created_by"`
	Comment        string    `db:"comment"`
	Status         string    `db:"status"`
	Data           []byte    `db:"data"`
}

type entryRow struct {
	ID         string     `db:"id"`
	VersionID  string     `db:"version_id"`
	Level      int        `db:"level"`
	Position   int        `db:"position"`
	ApproverID string     `db:"approver_id"`
	Status     string     `db:"status"`
	Comment    string     `db:"comment"`
	ApprovedAt *time.Time `db:"approved_at"`
}

// InsertVersion пишет версию и её роспись согласующих. Версии
// insert-only: замороженные data никогда не обновляются.
func (s *store) InsertVersion(ctx context.Context, version *domain.PlanningVersion) error {
	data, err := json.Marshal(version.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal version data: %w", err)
	}

	query := builder().Insert(tableVersions).
		Columns(versionColumns...).
		Values(
			version.ID, version.BudgetDetailID, version.VersionNumber,
			version.CreatedAt, version.CreatedBy, version.Comment, version.Status, data,
		)

	if _, err = s.pool.Execx(ctx, query); err != nil {
		logger.Errorf(ctx, "InsertVersion, version_id-%s: %s", version.ID, err.Error())
		return err
	}

	entriesQuery := builder().Insert(tableApprovalEntries).Columns(entryColumns...)
	count := 0
	for level, entries := range map[domain.ApprovalLevel][]*domain.ApprovalEntry{
		domain.ApprovalLevel1: version.Approvals.Level1,
		domain.ApprovalLevel2: version.Approvals.Level2,
	} {
		for position, entry := range entries {
			entriesQuery = entriesQuery.Values(
				entry.ID, version.ID, int(level), position,
				entry.ApproverID, entry.Status, entry.Comment, entry.ApprovedAt,
			)
			count++
		}
	}

	if count == 0 {
		return nil
	}

	if _, err = s.pool.Execx(ctx, entriesQuery); err != nil {
		logger.Errorf(ctx, "InsertVersion entries, version_id-%s: %s", version.ID, err.Error())
		return fmt.Errorf("insert approval entries: %w", err)
	}

	return nil
}

func (s *store) GetVersionByID(ctx context.Context, id string) (*domain.PlanningVersion, error) {
	query := builder().Select(versionColumns...).
		From(tableVersions).
		Where(sq.Eq{"id": id})

	var row versionRow
	if err := s.pool.Getx(ctx, &row, query); err != nil {
		return nil, wrapErr(err)
	}

	version, err := s.hydrateVersion(ctx, &row)
	if err != nil {
		return nil, err
	}

	return version, nil
}

func (s *store) ListVersionsByBudgetDetailID(ctx context.Context, budgetDetailID string) ([]*domain.PlanningVersion, error) {
	query := builder().Select(versionColumns...).
		From(tableVersions).
		Where(sq.Eq{"budget_detail_id": budgetDetailID}).
		OrderBy("version_number")

	var rows []*versionRow
	if err := s.pool.Selectx(ctx, &rows, query); err != nil {
		return nil, wrapErr(err)
	}

	versions := make([]*domain.PlanningVersion, 0, len(rows))
	for _, row := range rows {
		version, err := s.hydrateVersion(ctx, row)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}

	return versions, nil
}

func (s *store) hydrateVersion(ctx context.Context, row *versionRow) (*domain.PlanningVersion, error) {
	version := &domain.PlanningVersion{
		ID:             row.ID,
		BudgetDetailID: row.BudgetDetailID,
		VersionNumber:  row.VersionNumber,
		CreatedAt:      row.CreatedAt,
		CreatedBy:      row.CreatedBy,
		Comment:        row.Comment,
		Status:         domain.VersionStatus(row.Status),
		Data:           make(map[string]domain.CellMetrics),
	}

	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &version.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal version data: %w", err)
		}
	}

	entriesQuery := builder().Select(entryColumns...).
		From(tableApprovalEntries).
		Where(sq.Eq{"version_id": row.ID}).
		OrderBy("level, position")

	var entries []*entryRow
	if err := s.pool.Selectx(ctx, &entries, entriesQuery); err != nil {
		return nil, wrapErr(err)
	}

	for _, e := range entries {
		entry := &domain.ApprovalEntry{
			ID:         e.ID,
			ApproverID: e.ApproverID,
			Status:     domain.ApprovalStatus(e.Status),
			Comment:    e.Comment,
			ApprovedAt: e.ApprovedAt,
		}
		if domain.ApprovalLevel(e.Level) == domain.ApprovalLevel2 {
			version.Approvals.Level2 = append(version.Approvals.Level2, entry)
		} else {
			version.Approvals.Level1 = append(version.Approvals.Level1, entry)
		}
	}

	return version, nil
}

// SaveVersionApprovals обновляет статус версии и строки согласований.
// Поле data намеренно не трогается.
func (s *store) SaveVersionApprovals(ctx context.Context, version *domain.PlanningVersion) error {
	statusQuery := builder().Update(tableVersions).
		Set("status", version.Status).
		Where(sq.Eq{"id": version.ID})

	if _, err := s.pool.Execx(ctx, statusQuery); err != nil {
		return fmt.Errorf("update version status: %w", err)
	}

	for _, entry := range append(append([]*domain.ApprovalEntry{}, version.Approvals.Level1...), version.Approvals.Level2...) {
		entryQuery := builder().Update(tableApprovalEntries).
			Set("status", entry.Status).
			Set("comment", entry.Comment).
			Set("approved_at", entry.ApprovedAt).
			Where(sq.Eq{"id": entry.ID})

		if _, err := s.pool.Execx(ctx, entryQuery); err != nil {
			return fmt.Errorf("update approval entry %s: %w", entry.ID, err)
		}
	}

	return nil
}
