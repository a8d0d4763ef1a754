package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

func (c *Controller) GetPlanning(ctx echo.Context) error {
	view, err := c.planningService.GetPlanning(ctx.Request().Context(), ctx.Param("budget_detail_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

func (c *Controller) SetProposed(ctx echo.Context) error {
	var request struct {
		Value float64 `json:"value" validate:"gte=0,lte=100"`
	}
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	view, err := c.planningService.SetProposed(
		ctx.Request().Context(),
		ctx.Param("budget_detail_id"),
		ctx.Param("key"),
		request.Value,
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

func (c *Controller) SetComment(ctx echo.Context) error {
	var request struct {
		Comment string `json:"comment"`
	}
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	view, err := c.planningService.SetComment(ctx.Request().Context(), ctx.Param("budget_detail_id"), request.Comment)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

func (c *Controller) SelectVersion(ctx echo.Context) error {
	var request struct {
		Selection string `json:"selection" validate:"required"`
	}
	if err := ctx.Bind(&request); err != nil {
		return err
	}

	view, err := c.planningService.Select(ctx.Request().Context(), ctx.Param("budget_detail_id"), request.Selection)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

func (c *Controller) SavePlanning(ctx echo.Context) error {
	records, err := c.planningService.Save(ctx.Request().Context(), ctx.Param("budget_detail_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, records)
}

func (c *Controller) ApprovePlanning(ctx echo.Context) error {
	userID, _ := ctx.Get(constants.CtxKeyUserID).(string)

	allowed, err := c.authService.HasPermission(ctx.Request().Context(), userID, domain.PermissionPlanningEdit)
	if err != nil {
		return err
	}
	if !allowed {
		return constants.ErrForbidden
	}

	version, err := c.planningService.Approve(ctx.Request().Context(), ctx.Param("budget_detail_id"), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, version)
}
