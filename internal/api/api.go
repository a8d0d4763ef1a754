package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/viper"

	"github.com/TCDevop/otb-planning/internal/api/controller"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
	"github.com/TCDevop/otb-planning/internal/pkg/store"
	"github.com/TCDevop/otb-planning/internal/service/approval"
	"github.com/TCDevop/otb-planning/internal/service/auth"
	"github.com/TCDevop/otb-planning/internal/service/dimension"
	"github.com/TCDevop/otb-planning/internal/service/masterdata"
	"github.com/TCDevop/otb-planning/internal/service/planning"
)

type APIService struct {
	router *echo.Echo

	planningService   *planning.Service
	dimensionService  *dimension.Service
	approvalService   *approval.Service
	authService       *auth.Service
	masterDataService *masterdata.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = Serializer{}
	svc.router.Logger.SetLevel(log.INFO)
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{viper.GetString(constants.ViperDashboardOrigin)},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.dimensionService = dimension.NewService(store)
	svc.authService = auth.NewService(store)
	svc.planningService = planning.NewService(store, svc.dimensionService)
	svc.approvalService = approval.NewService(store, svc.authService)
	svc.masterDataService = masterdata.NewService(store)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(
		svc.planningService,
		svc.dimensionService,
		svc.approvalService,
		svc.authService,
		svc.masterDataService,
	)

	dimensions := api.Group("/dimensions")
	dimensions.GET("/tree", cntrl.GetDimensionTree)

	plannings := api.Group("/plannings", svc.AuthMiddleware)
	plannings.GET("/:budget_detail_id", cntrl.GetPlanning)
	plannings.PUT("/:budget_detail_id/cells/:key", cntrl.SetProposed)
	plannings.PUT("/:budget_detail_id/comment", cntrl.SetComment)
	plannings.POST("/:budget_detail_id/select", cntrl.SelectVersion)
	plannings.POST("/:budget_detail_id/save", cntrl.SavePlanning)
	plannings.POST("/:budget_detail_id/approve", cntrl.ApprovePlanning)

	versions := api.Group("/versions", svc.AuthMiddleware)
	versions.POST("/:version_id/approvals", cntrl.SetApprovalStatus)

	user := api.Group("/user", svc.AuthMiddleware)
	user.GET("/get", cntrl.GetUser)

	masterdataGroup := api.Group("/masterdata", svc.AuthMiddleware)
	masterdataGroup.POST("/backfill", cntrl.BackfillCategoryMaster)

	return svc, nil
}
