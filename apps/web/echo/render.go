package echoweb

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates
var templatesFS embed.FS

const flashCookieName = "flash"

type renderer struct {
	templates *template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() *renderer {
	return &renderer{
		templates: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, ctx echo.Context) error {
	return errors.Wrapf(r.templates.ExecuteTemplate(w, name, data), "rendering %s", name)
}

// render executes a template with common page data (session user, flash)
// merged into data.
func render(ctx echo.Context, code int, name string, data map[string]interface{}) error {
	if data == nil {
		data = make(map[string]interface{})
	}
	if claims, err := getContextClaims(ctx); err == nil {
		data["Username"] = claims.Username
	}
	if flash, ok := popFlash(ctx); ok {
		data["Flash"] = flash
	}
	// templates dereference these unconditionally
	if _, ok := data["Username"]; !ok {
		data["Username"] = ""
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	return ctx.Render(code, name, data)
}

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(ctx echo.Context, msg string) {
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		Expires:  time.Now().Add(time.Minute),
		HttpOnly: true,
	})
}

func popFlash(ctx echo.Context) (string, bool) {
	cookie, err := ctx.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", false
	}
	return msg, true
}
