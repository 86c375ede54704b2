package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/taxonomy"
)

type taxonomyApi struct {
	conf     *core.Config
	svc      taxonomy.Service
	validate *validator.Validate
}

func registerTaxonomyAPI(g *echo.Group, adminAuth echo.MiddlewareFunc, opts *Options) {
	api := taxonomyApi{
		conf:     opts.Conf,
		svc:      opts.TaxonomySvc,
		validate: opts.Validate,
	}

	g.GET("/goals", api.queryGoals)
	g.GET("/goals/:goalId/subjects", api.queryGoalSubjects)
	g.GET("/subjects", api.querySubjects)

	g.POST("/goals", api.createGoal, adminAuth)
	g.POST("/subjects", api.createSubject, adminAuth)
}

// Handlers

func (api *taxonomyApi) queryGoals(ctx echo.Context) error {
	goals, err := api.svc.QueryAllGoals()
	if err != nil {
		return errors.Wrap(err, "querying goals")
	}

	// the flagship exam track is pinned first; the store keeps no ordering
	if flagship := api.conf.FlagshipGoal; flagship != "" {
		for i, g := range goals {
			if g.Name == flagship && i > 0 {
				copy(goals[1:i+1], goals[:i])
				goals[0] = g
				break
			}
		}
	}
	return ctx.JSON(http.StatusOK, goals)
}

func (api *taxonomyApi) queryGoalSubjects(ctx echo.Context) error {
	goalID, err := strconv.Atoi(ctx.Param("goalId"))
	if err != nil {
		return core.NewValidationError(errors.New("invalid goal id"))
	}

	subjects, err := api.svc.QueryGoalSubjects(goalID)
	if err != nil {
		return errors.Wrap(err, "querying goal subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *taxonomyApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QueryAllSubjects()
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *taxonomyApi) createGoal(ctx echo.Context) error {
	var data taxonomy.NewGoal
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGoal")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	goal, err := api.svc.CreateGoal(data)
	if err != nil {
		return errors.Wrap(err, "creating goal")
	}
	return ctx.JSON(http.StatusCreated, goal)
}

func (api *taxonomyApi) createSubject(ctx echo.Context) error {
	var data taxonomy.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	subject, err := api.svc.CreateSubject(data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subject)
}
