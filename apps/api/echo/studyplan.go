package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
)

var errInvalidPlanID = "invalid study plan id"

type (
	MessageResponse struct {
		Message string `json:"message"`
	}

	GenerateResponse struct {
		Message string `json:"message"`
		PlanID  int    `json:"plan_id"`
	}
)

type studyPlanApi struct {
	svc      studyplan.ServiceInterface
	validate *validator.Validate
	logger   core.Logger
}

func registerStudyPlanAPI(
	g *echo.Group,
	authed []echo.MiddlewareFunc,
	svc studyplan.ServiceInterface,
	validate *validator.Validate,
	logger core.Logger,
) {
	api := studyPlanApi{
		svc:      svc,
		validate: validate,
		logger:   logger,
	}

	sg := g.Group("/study-plans", authed...)
	sg.POST("/generate", api.generate)
	sg.GET("/current", api.current)
	sg.PUT("/swap-days", api.swap)
	sg.GET("/strengths", api.strengths)
	sg.PUT("/strengths/:course_id/:strength", api.updateStrength)
	sg.GET("/week/:week_date", api.byWeek)
	sg.GET("", api.query)

	// detail endpoints
	sg.GET("/:id", api.retrieve)
	sg.DELETE("/:id", api.destroy)
}

func planIDParam(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "id", Error: errInvalidPlanID})
	}
	return id, nil
}

// Handlers

func (api *studyPlanApi) generate(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data studyplan.GenerateRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	plan, err := api.svc.Generate(ctx.Request().Context(), userID, data)
	if err != nil {
		if core.IsValidationError(err) {
			return err
		}
		api.logger.Error("generating study plan", err, core.LogUser(userID))
		return echo.NewHTTPError(http.StatusBadRequest, errors.Cause(err).Error()).SetInternal(err)
	}

	return ctx.JSON(http.StatusOK, GenerateResponse{Message: "Study plan generated successfully", PlanID: plan.ID})
}

func (api *studyPlanApi) current(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	plan, err := api.svc.CurrentWeekPlan(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "getting current week plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) swap(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data studyplan.SwapRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SwapRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.svc.Swap(ctx.Request().Context(), userID, data); err != nil {
		return errors.Wrap(err, "swapping days")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Days swapped successfully"})
}

func (api *studyPlanApi) strengths(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	strengths, err := api.svc.Strengths(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying strengths")
	}
	return ctx.JSON(http.StatusOK, strengths)
}

func (api *studyPlanApi) updateStrength(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	var data studyplan.UpdateStrength
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStrength")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if _, err = api.svc.UpdateStrength(ctx.Request().Context(), userID, data.CourseID, data.Strength); err != nil {
		return errors.Wrap(err, "updating strength")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Strength updated"})
}

func (api *studyPlanApi) query(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	plans, err := api.svc.ListPlans(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying study plans")
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *studyPlanApi) retrieve(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := planIDParam(ctx)
	if err != nil {
		return err
	}

	plan, err := api.svc.PlanByID(ctx.Request().Context(), userID, id)
	if err != nil {
		return errors.Wrap(err, "getting study plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) byWeek(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}

	plan, err := api.svc.PlanByWeek(ctx.Request().Context(), userID, ctx.Param("week_date"))
	if err != nil {
		return errors.Wrap(err, "getting week plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) destroy(ctx echo.Context) error {
	userID, err := getContextUserID(ctx)
	if err != nil {
		return err
	}
	id, err := planIDParam(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.DeletePlan(ctx.Request().Context(), userID, id); err != nil {
		return errors.Wrap(err, "deleting study plan")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Study plan deleted successfully"})
}
