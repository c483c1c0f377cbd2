package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-plans/app/dto"
	"github.com/vibast-solutions/ms-go-plans/app/factory"
	"github.com/vibast-solutions/ms-go-plans/app/mapper"
	"github.com/vibast-solutions/ms-go-plans/app/service"
	"github.com/vibast-solutions/ms-go-plans/app/types"
)

type PlanController struct {
	planService *service.PlanService
	logger      logrus.FieldLogger
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{
		planService: planService,
		logger:      factory.NewModuleLogger("plans-controller"),
	}
}

func (c *PlanController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *PlanController) CreatePlan(ctx echo.Context) error {
	req, err := types.NewCreatePlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.planService.CreatePlan(ctx.Request().Context(), req)
	if err != nil {
		return c.writeServiceError(ctx, err, "Create plan failed")
	}

	return ctx.JSON(http.StatusCreated, &dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
}

func (c *PlanController) GetPlan(ctx echo.Context) error {
	req, err := types.NewGetPlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.planService.GetPlan(ctx.Request().Context(), req.GetID())
	if err != nil {
		return c.writeServiceError(ctx, err, "Get plan failed")
	}

	return ctx.JSON(http.StatusOK, &dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
}

func (c *PlanController) UpdatePlan(ctx echo.Context) error {
	req, err := types.NewUpdatePlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.planService.UpdatePlan(ctx.Request().Context(), req)
	if err != nil {
		return c.writeServiceError(ctx, err, "Update plan failed")
	}

	return ctx.JSON(http.StatusOK, &dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
}

func (c *PlanController) DeletePlan(ctx echo.Context) error {
	req, err := types.NewDeletePlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	deleted, err := c.planService.DeletePlan(ctx.Request().Context(), req.GetID())
	if err != nil {
		return c.writeServiceError(ctx, err, "Delete plan failed")
	}

	return ctx.JSON(http.StatusOK, &dto.DeletePlanResponse{
		Message: "Plan deleted successfully",
		ID:      deleted.ID,
		Deleted: deleted.Deleted,
	})
}

func (c *PlanController) ListPlans(ctx echo.Context) error {
	req, err := types.NewListPlansRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid query params")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	list, err := c.planService.ListPlans(ctx.Request().Context(), req)
	if err != nil {
		return c.writeServiceError(ctx, err, "List plans failed")
	}

	return ctx.JSON(http.StatusOK, &dto.ListPlansResponse{
		Plans:   mapper.PlansToResponse(list.Data),
		HasMore: list.HasMore,
	})
}

func (c *PlanController) ListMirroredPlans(ctx echo.Context) error {
	items, err := c.planService.ListMirroredPlans(ctx.Request().Context())
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List mirrored plans failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListMirroredPlansResponse{
		Plans: mapper.MirroredPlansToResponse(items),
	})
}

func (c *PlanController) GetMirroredPlan(ctx echo.Context) error {
	req, err := types.NewGetPlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.planService.GetMirroredPlan(ctx.Request().Context(), req.GetID())
	if err != nil {
		return c.writeServiceError(ctx, err, "Get mirrored plan failed")
	}

	return ctx.JSON(http.StatusOK, &dto.MirroredPlanEnvelopeResponse{Plan: mapper.MirroredPlanToResponse(item)})
}

func (c *PlanController) writeServiceError(ctx echo.Context, err error, logMessage string) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		if message := service.ProviderMessage(err); message != "" {
			return c.writeError(ctx, http.StatusBadRequest, message)
		}
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		return c.writeError(ctx, http.StatusNotFound, "plan not found")
	case errors.Is(err, service.ErrPlanAlreadyExists):
		return c.writeError(ctx, http.StatusConflict, "plan already exists")
	case errors.Is(err, service.ErrProviderUnauthorized), errors.Is(err, service.ErrProviderUnavailable):
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error(logMessage)
		return c.writeError(ctx, http.StatusBadGateway, "payment provider error")
	default:
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error(logMessage)
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
}

func (c *PlanController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
