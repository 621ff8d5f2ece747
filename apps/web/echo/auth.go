package echoweb

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

const (
	sessionCookieName = "session"
	contextClaimsKey  = "claims"
)

var errNoSession = errors.New("no valid session")

// Claims represents the authenticated identity carried by the session cookie.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
}

func (c *Claims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

// GetSessionClaims builds the session claims for an authenticated User.
func GetSessionClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: now.Add(conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func parseToken(tokenStr string, conf *core.Config) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errNoSession
	}
	return claims, nil
}

// startSession sets the signed session cookie for an authenticated User.
func startSession(ctx echo.Context, usr user.User, conf *core.Config) error {
	token, err := GenerateToken(GetSessionClaims(usr, conf), conf)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(conf.Server.SessionExpirationDelta),
		HttpOnly: true,
	})
	return nil
}

// clearSession unconditionally expires the session cookie; it never fails.
func clearSession(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}

// sessionMiddleware is the session gate: every listing or mutating route sits
// behind it. An absent, expired or tampered cookie, or a token whose account
// no longer exists, redirects to the login flow instead of performing the
// operation.
func sessionMiddleware(deps ServerDeps) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return ctx.Redirect(http.StatusFound, "/login")
			}
			claims, err := parseToken(cookie.Value, deps.Conf)
			if err != nil {
				clearSession(ctx)
				return ctx.Redirect(http.StatusFound, "/login")
			}
			id, err := claims.UserID()
			if err != nil {
				clearSession(ctx)
				return ctx.Redirect(http.StatusFound, "/login")
			}
			if _, err = deps.UserSvc.GetByID(id); err != nil {
				clearSession(ctx)
				return ctx.Redirect(http.StatusFound, "/login")
			}
			ctx.Set(contextClaimsKey, *claims)
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(Claims); ok {
		return claims, nil
	}
	return Claims{}, errNoSession
}
