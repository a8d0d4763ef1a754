package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

func (c *Controller) BackfillCategoryMaster(ctx echo.Context) error {
	userID, _ := ctx.Get(constants.CtxKeyUserID).(string)

	allowed, err := c.authService.HasPermission(ctx.Request().Context(), userID, domain.PermissionMasterDataImport)
	if err != nil {
		return err
	}
	if !allowed {
		return constants.ErrForbidden
	}

	rows, err := c.masterDataService.ImportCategoryMaster(
		ctx.Request().Context(),
		viper.GetString(constants.ViperMasterDataURL),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rows)
}
