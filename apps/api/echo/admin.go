package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/admin"
	"github.com/vaaniprep/vaani/core/note"
)

type adminApi struct {
	conf     *core.Config
	svc      admin.Service
	noteSvc  note.Service
	validate *validator.Validate
}

func registerAdminAPI(g *echo.Group, adminAuth echo.MiddlewareFunc, opts *Options) {
	api := adminApi{
		conf:     opts.Conf,
		svc:      opts.AdminSvc,
		noteSvc:  opts.NoteSvc,
		validate: opts.Validate,
	}

	ag := g.Group("/admin")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)

	// authed back-office endpoints
	bg := ag.Group("", adminAuth)
	bg.GET("/verify", api.verify)
	bg.GET("/notes", api.queryNotes)
	bg.POST("/notes", api.createNote)
	bg.PUT("/notes/:id", api.updateNote)
	bg.DELETE("/notes/:id", api.destroyNote)
	bg.DELETE("/notes/bulk", api.destroyNotes)
	bg.GET("/notes/paginated", api.queryNotesPaginated)
	bg.GET("/notes/subjects", api.queryNoteSubjects)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data admin.Login
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Login")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	errInvalidCredentials := core.NewValidationError(errors.New("invalid credentials"))

	adm, err := api.svc.GetByEmail(data.Email)
	if err != nil {
		if errors.Cause(err) == admin.ErrNotFound {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "finding admin by email")
	}
	if err = adm.CheckPassword(data.Password); err != nil {
		return errInvalidCredentials
	}

	token, err := GenerateToken(api.conf, GetAdminClaims(api.conf, adm))
	if err != nil {
		return err
	}
	setSessionCookie(ctx, adminCookieName, token, api.conf.Server.AdminJWTExpiration)

	return ctx.JSON(http.StatusOK, echo.Map{"token": token, "admin": adm})
}

func (api *adminApi) logout(ctx echo.Context) error {
	clearSessionCookie(ctx, adminCookieName)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "logged out"})
}

func (api *adminApi) verify(ctx echo.Context) error {
	adm, ok := ctx.Get(contextAdminKey).(admin.Admin)
	if !ok {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, adm)
}

func (api *adminApi) queryNotes(ctx echo.Context) error {
	notes, err := api.noteSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	if notes == nil {
		notes = []note.Note{}
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *adminApi) createNote(ctx echo.Context) error {
	var data note.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	n, err := api.noteSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *adminApi) updateNote(ctx echo.Context) error {
	id, err := noteIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var data note.UpdateNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	n, err := api.noteSvc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *adminApi) destroyNote(ctx echo.Context) error {
	id, err := noteIDParam(ctx, "id")
	if err != nil {
		return err
	}

	cnt, err := api.noteSvc.Delete(id)
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if cnt == 0 {
		return note.ErrNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) destroyNotes(ctx echo.Context) error {
	var data DestroyNotesRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DestroyNotesRequest")
	}
	if len(data.IDs) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "ids", Error: "at least one note id is required"})
	}

	// unresolvable ids are skipped; only a fully-unmatched request is an error
	cnt, err := api.noteSvc.Delete(data.IDs...)
	if err != nil {
		return errors.Wrap(err, "deleting notes")
	}
	if cnt == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "ids", Error: "no notes matched the supplied ids"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"deleted": cnt})
}

func (api *adminApi) queryNotesPaginated(ctx echo.Context) error {
	var opts note.QueryOptions
	if err := ctx.Bind(&opts); err != nil {
		return errors.Wrap(err, "binding to QueryOptions")
	}

	notes, total, err := api.noteSvc.Filter(opts)
	if err != nil {
		return errors.Wrap(err, "filtering notes")
	}
	if notes == nil {
		notes = []note.Note{}
	}
	return ctx.JSON(http.StatusOK, PaginatedNotesResponse{Notes: notes, Total: total})
}

func (api *adminApi) queryNoteSubjects(ctx echo.Context) error {
	subjects, err := api.noteSvc.UniqueSubjects()
	if err != nil {
		return errors.Wrap(err, "querying note subjects")
	}
	if subjects == nil {
		subjects = []string{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

type (
	DestroyNotesRequest struct {
		IDs []int `json:"ids"`
	}

	PaginatedNotesResponse struct {
		Notes []note.Note `json:"notes"`
		Total int         `json:"total"`
	}
)
