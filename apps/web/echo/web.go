package echoweb

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
)

// registerWebApp mounts all routes. Everything past the login flow sits
// behind sessionMiddleware.
func registerWebApp(app *echo.Echo, deps ServerDeps) {
	registerUserRoutes(app, deps)
	registerSchoolRoutes(app, deps)

	app.GET("/", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusFound, "/login")
	})
}

// fieldErrors flattens input validation failures into a field -> message map
// for template rendering. Returns nil for non-validation errors.
func fieldErrors(err error, trans ut.Translator) map[string]string {
	flds := make(map[string]string)
	switch verr := err.(type) {
	case validator.ValidationErrors:
		for _, fe := range verr {
			flds[fe.Field()] = fe.Translate(trans)
		}
	case *core.ValidationError:
		for _, fe := range verr.Fields {
			flds[fe.Field] = fe.Error
		}
	default:
		return nil
	}
	return flds
}
