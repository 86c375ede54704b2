package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/note"
)

type noteApi struct {
	svc      note.Service
	validate *validator.Validate
}

func registerNoteAPI(g *echo.Group, auth echo.MiddlewareFunc, opts *Options) {
	api := noteApi{
		svc:      opts.NoteSvc,
		validate: opts.Validate,
	}

	// public catalog
	g.GET("/notes", api.query)
	g.GET("/notes/:id", api.retrieve)
	g.GET("/notes/:id/view", api.view, auth)

	// saved-notes dashboard
	sg := g.Group("/student/notes", auth)
	sg.GET("", api.querySaved)
	sg.POST("", api.save)
	sg.DELETE("/:noteId", api.remove)
}

func noteIDParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, core.NewValidationError(errors.New("invalid note id"))
	}
	return id, nil
}

// Handlers

func (api *noteApi) query(ctx echo.Context) error {
	notes, err := api.svc.QueryPublished()
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	if notes == nil {
		notes = []note.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteApi) retrieve(ctx echo.Context) error {
	id, err := noteIDParam(ctx, "id")
	if err != nil {
		return err
	}

	n, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding note")
	}
	// unpublished content stays invisible on the public surface
	if !n.IsPublished {
		return note.ErrNotFound
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteApi) view(ctx echo.Context) error {
	id, err := noteIDParam(ctx, "id")
	if err != nil {
		return err
	}

	n, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "finding note")
	}
	if !n.DriveLink.Valid || n.DriveLink.String == "" {
		// soft failure: the client renders this inline instead of erroring
		return ctx.JSON(http.StatusOK, echo.Map{"message": "content link not available"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"driveLink": n.DriveLink.String})
}

func (api *noteApi) querySaved(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	saved, err := api.svc.QuerySaved(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying saved notes")
	}
	if saved == nil {
		saved = []note.SavedNote{}
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (api *noteApi) save(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data SaveNoteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveNoteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	saved, err := api.svc.Save(usr.ID, data.NoteID)
	if err != nil {
		return errors.Wrap(err, "saving note")
	}
	return ctx.JSON(http.StatusCreated, saved)
}

func (api *noteApi) remove(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	id, err := noteIDParam(ctx, "noteId")
	if err != nil {
		return err
	}

	if err := api.svc.Remove(usr.ID, id); err != nil {
		return errors.Wrap(err, "removing saved note")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type SaveNoteRequest struct {
	NoteID int `json:"noteId" validate:"required"`
}
