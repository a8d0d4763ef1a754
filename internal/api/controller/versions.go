package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
	"github.com/TCDevop/otb-planning/internal/service/approval"
)

func (c *Controller) SetApprovalStatus(ctx echo.Context) error {
	var request struct {
		Level   int    `json:"level" validate:"required,oneof=1 2"`
		Status  string `json:"status" validate:"required,oneof=approved rejected"`
		Comment string `json:"comment"`
	}
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	approverID, _ := ctx.Get(constants.CtxKeyUserID).(string)

	version, err := c.approvalService.SetApprovalStatus(
		ctx.Request().Context(),
		ctx.Param("version_id"),
		domain.ApprovalLevel(request.Level),
		approverID,
		domain.ApprovalStatus(request.Status),
		request.Comment,
	)
	if err != nil {
		return err
	}

	type response struct {
		Version  *domain.PlanningVersion `json:"version"`
		Progress domain.ApprovalProgress `json:"progress"`
	}

	return ctx.JSON(http.StatusOK, response{
		Version:  version,
		Progress: approval.Progress(version),
	})
}
