package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/admin"
	"github.com/vaaniprep/vaani/core/user"
)

const (
	// session cookies; http-only, the SPA never reads them
	sessionCookieName = "vaani_session"
	adminCookieName   = "vaani_admin"

	audStudent = "student"
	audAdmin   = "admin"

	contextClaimsKey = "claims"
	contextUserKey   = "user"
	contextAdminKey  = "admin"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UserID parses the Subject back into a user primary key; 0 when the
// token does not belong to a user.
func (c Claims) UserID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

func GetUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			Audience:  jwt.ClaimStrings{audStudent},
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.JWTExpirationDelta)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: usr.Username,
		Email:    usr.Email,
	}
}

func GetAdminClaims(conf *core.Config, adm admin.Admin) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(adm.ID),
			Audience:  jwt.ClaimStrings{audAdmin},
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.AdminJWTExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: adm.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(conf.SecretKey)
	return ss, errors.Wrap(err, "signing token")
}

func parseToken(conf *core.Config, tokenStr, audience string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(*jwt.Token) (interface{}, error) { return conf.SecretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithIssuer(conf.AppName),
	)
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

// extractToken looks the session token up in the named cookie first, then in
// the Authorization header.
func extractToken(ctx echo.Context, cookieName string) (string, error) {
	if cookie, err := ctx.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token, nil
		}
	}
	return "", errUnauthorized
}

// authMiddleware authenticates students: 401 without a token, 403 when the
// token is invalid, expired or its user no longer exists.
func authMiddleware(conf *core.Config, svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenStr, err := extractToken(ctx, sessionCookieName)
			if err != nil {
				return err
			}
			claims, err := parseToken(conf, tokenStr, audStudent)
			if err != nil {
				return err
			}
			usr, err := svc.GetByID(claims.UserID())
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errInvalidToken
				}
				return errors.Wrap(err, "finding user by ID")
			}
			ctx.Set(contextClaimsKey, *claims)
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// adminAuthMiddleware guards the back-office routes with the admin audience.
func adminAuthMiddleware(conf *core.Config, svc admin.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenStr, err := extractToken(ctx, adminCookieName)
			if err != nil {
				return err
			}
			claims, err := parseToken(conf, tokenStr, audAdmin)
			if err != nil {
				return err
			}
			adm, err := svc.GetByEmail(claims.Email)
			if err != nil {
				if errors.Cause(err) == admin.ErrNotFound {
					return errInvalidToken
				}
				return errors.Wrap(err, "finding admin by email")
			}
			ctx.Set(contextClaimsKey, *claims)
			ctx.Set(contextAdminKey, adm)
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(Claims); ok {
		return claims, nil
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

// authenticate checks a student's email+password pair; failures are flattened
// into one generic error so callers cannot probe for registered emails.
func authenticate(email, pwd string, svc user.Service) (user.User, error) {
	errInvalidCredentials := core.NewValidationError(errors.New("invalid credentials"))

	usr, err := svc.GetByEmail(email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errInvalidCredentials
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return user.User{}, errInvalidCredentials
	}
	usr, err = svc.SetLastLogin(usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// Continuation carries the intent interrupted by the auth gate: where the
// visitor was and, when applicable, which note they tried to open or save.
type Continuation struct {
	ReturnPath string `json:"returnPath"`
	NoteID     int    `json:"noteId"`
}

// RedirectTo resolves the post-auth destination. Only site-relative paths are
// honored; anything else falls back to the root.
func (c Continuation) RedirectTo() string {
	p := c.ReturnPath
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "://") {
		return p
	}
	return "/"
}

func setSessionCookie(ctx echo.Context, name, token string, maxAge time.Duration) {
	ctx.SetCookie(&http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(ctx echo.Context, name string) {
	ctx.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
