package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/user"
)

type authApi struct {
	conf       *core.Config
	svc        user.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAuthAPI(g *echo.Group, auth echo.MiddlewareFunc, opts *Options) {
	api := authApi{
		conf:       opts.Conf,
		svc:        opts.UserSvc,
		validate:   opts.Validate,
		translator: opts.Translator,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/forgot-password` & `/reset-password`
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.POST("/check-credentials", api.checkCredentials)
	ag.POST("/forgot-password", api.forgotPassword)
	ag.POST("/reset-password/:token", api.resetPassword)

	// authed endpoints
	ag.GET("/me", api.me, auth)
}

// Handlers

func (api *authApi) signup(ctx echo.Context) error {
	var data SignupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignupRequest")
	}
	if err := data.NewUser.Validate(api.validate, api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(data.NewUser)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return err
	}
	setSessionCookie(ctx, sessionCookieName, token, api.conf.Server.JWTExpirationDelta)

	return ctx.JSON(http.StatusCreated, AuthResponse{
		Token:      token,
		User:       usr.Public(),
		RedirectTo: data.Continuation.RedirectTo(),
	})
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := authenticate(data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}

	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return err
	}
	setSessionCookie(ctx, sessionCookieName, token, api.conf.Server.JWTExpirationDelta)

	return ctx.JSON(http.StatusOK, AuthResponse{
		Token:      token,
		User:       usr.Public(),
		RedirectTo: data.Continuation.RedirectTo(),
	})
}

func (api *authApi) logout(ctx echo.Context) error {
	clearSessionCookie(ctx, sessionCookieName)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "logged out"})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) checkCredentials(ctx echo.Context) error {
	var data user.CredentialsQuery
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CredentialsQuery")
	}
	data.Clean()
	if data.IsEmpty() {
		return core.NewValidationError(errors.New("no credentials supplied"))
	}

	existence, err := api.svc.CheckCredentials(data)
	if err != nil {
		return errors.Wrap(err, "checking credentials")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"exists": existence})
}

func (api *authApi) forgotPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Param("token"), data.Password); err != nil {
		if errors.Cause(err) == user.ErrResetTokenInvalid {
			return core.NewValidationError(user.ErrResetTokenInvalid)
		}
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

type (
	SignupRequest struct {
		user.NewUser
		Continuation Continuation `json:"continuation"`
	}

	LoginRequest struct {
		Email        string       `json:"email" validate:"required,email"`
		Password     string       `json:"password" validate:"required"`
		Continuation Continuation `json:"continuation"`
	}

	AuthResponse struct {
		Token      string          `json:"token"`
		User       user.PublicUser `json:"user"`
		RedirectTo string          `json:"redirectTo"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
