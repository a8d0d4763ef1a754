package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

func (c *Controller) GetUser(ctx echo.Context) error {
	userID, _ := ctx.Get(constants.CtxKeyUserID).(string)

	user, err := c.authService.GetUser(ctx.Request().Context(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, user)
}
