package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/service/dimension"
)

func (c *Controller) GetDimensionTree(ctx echo.Context) error {
	tree, err := c.dimensionService.Tree(ctx.Request().Context())
	if err != nil {
		return err
	}

	selection := dimension.FilterSelection{
		GenderID:      ctx.QueryParams().Get("gender_id"),
		CategoryID:    ctx.QueryParams().Get("category_id"),
		SubCategoryID: ctx.QueryParams().Get("sub_category_id"),
	}

	type response struct {
		Tree    *domain.DimensionTree   `json:"tree"`
		Filters dimension.FilterOptions `json:"filters"`
	}

	return ctx.JSON(http.StatusOK, response{
		Tree:    tree,
		Filters: dimension.Options(tree, selection),
	})
}
