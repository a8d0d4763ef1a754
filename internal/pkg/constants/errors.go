package constants

import "net/http"

// CodedError несёт HTTP-код вместе с сообщением, чтобы error_handler
// мог отдать клиенту осмысленный статус.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError(http.StatusNotFound, "not found")
	ErrUnauthorized      = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrMissingAuthCookie = NewCodedError(http.StatusUnauthorized, "missing auth cookie")
	ErrForbidden         = NewCodedError(http.StatusForbidden, "forbidden")

	ErrPlanningNotFound = NewCodedError(http.StatusNotFound, "planning not found")
	ErrVersionNotFound  = NewCodedError(http.StatusNotFound, "version not found")
	ErrApproverNotFound = NewCodedError(http.StatusNotFound, "approver not found in roster")

	// ErrFrozenVersion — попытка изменить draft-поле, когда выбрана
	// замороженная версия.
	ErrFrozenVersion = NewCodedError(http.StatusConflict, "selected version is frozen, switch to draft to edit")
	// ErrApprovalGate — level-2 действие до того, как весь level-1 согласован.
	ErrApprovalGate = NewCodedError(http.StatusConflict, "level-2 approvals are locked until all level-1 approvals are approved")
	// ErrVersionFinalized — версия уже approved/rejected, согласования по ней закрыты.
	ErrVersionFinalized = NewCodedError(http.StatusConflict, "version is finalized, approvals can no longer change")
	ErrEmptyRoster      = NewCodedError(http.StatusUnprocessableEntity, "approver roster is empty")
	ErrStaleDraft       = NewCodedError(http.StatusConflict, "draft was modified concurrently, reload and retry")

	ErrBadApprovalStatus = NewCodedError(http.StatusBadRequest, "approval status must be approved or rejected")
	ErrBadProposedValue  = NewCodedError(http.StatusBadRequest, "proposed buy percent must be within [0, 100]")
)
