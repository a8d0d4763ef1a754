package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

const (
	tableUsers           = "users"
	tableUserPermissions = "user_permissions"
	tableBudgetDetails   = "budget_details"
	tableDrafts          = "planning_drafts"
	tableDraftCells      = "planning_draft_cells"
	tableVersions        = "planning_versions"
	tableApprovalEntries = "approval_entries"
	tableApproverRosters = "approver_rosters"
	tableCategoryMaster  = "category_master"
	tableLineItems       = "planning_line_items"
	tablePlanningRecords = "planning_records"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
