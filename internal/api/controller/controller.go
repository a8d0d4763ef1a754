package controller

import (
	"github.com/TCDevop/otb-planning/internal/service/approval"
	"github.com/TCDevop/otb-planning/internal/service/auth"
	"github.com/TCDevop/otb-planning/internal/service/dimension"
	"github.com/TCDevop/otb-planning/internal/service/masterdata"
	"github.com/TCDevop/otb-planning/internal/service/planning"
)

type Controller struct {
	planningService   *planning.Service
	dimensionService  *dimension.Service
	approvalService   *approval.Service
	authService       *auth.Service
	masterDataService *masterdata.Service
}

func NewController(
	planningService *planning.Service,
	dimensionService *dimension.Service,
	approvalService *approval.Service,
	authService *auth.Service,
	masterDataService *masterdata.Service,
) *Controller {
	return &Controller{
		planningService:   planningService,
		dimensionService:  dimensionService,
		approvalService:   approvalService,
		authService:       authService,
		masterDataService: masterDataService,
	}
}
