package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

type userApp struct {
	deps ServerDeps
}

func registerUserRoutes(app *echo.Echo, deps ServerDeps) {
	a := userApp{deps: deps}

	app.GET("/login", a.loginPage)
	app.POST("/login", a.login)
	app.GET("/register", a.registerPage)
	app.POST("/register", a.register)
	app.GET("/logout", a.logout)
}

func (a *userApp) loginPage(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "login.html", nil)
}

func (a *userApp) login(ctx echo.Context) error {
	var creds user.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding credentials")
	}

	data := map[string]interface{}{"Username": creds.Username}
	if err := creds.Validate(a.deps.Validate); err != nil {
		if flds := fieldErrors(err, a.deps.Translator); flds != nil {
			data["Errors"] = flds
			return render(ctx, http.StatusBadRequest, "login.html", data)
		}
		return err
	}

	usr, err := a.deps.UserSvc.Authenticate(creds.Username, creds.Password)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			data["Error"] = err.Error()
			return render(ctx, http.StatusBadRequest, "login.html", data)
		}
		return err
	}

	if err = startSession(ctx, usr, a.deps.Conf); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, "/dashboard")
}

func (a *userApp) registerPage(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "register.html", nil)
}

func (a *userApp) register(ctx echo.Context) error {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return errors.Wrap(err, "binding new user")
	}

	if err := nu.Validate(a.deps.Validate, a.deps.UserSvc); err != nil {
		if flds := fieldErrors(err, a.deps.Translator); flds != nil {
			data := map[string]interface{}{
				"Username": nu.Username,
				"Errors":   flds,
			}
			return render(ctx, http.StatusBadRequest, "register.html", data)
		}
		return err
	}

	if _, err := a.deps.UserSvc.Register(nu); err != nil {
		if flds := fieldErrors(err, a.deps.Translator); flds != nil {
			data := map[string]interface{}{
				"Username": nu.Username,
				"Errors":   flds,
			}
			return render(ctx, http.StatusBadRequest, "register.html", data)
		}
		return err
	}

	setFlash(ctx, "Account created. You can now log in.")
	return ctx.Redirect(http.StatusFound, "/login")
}

func (a *userApp) logout(ctx echo.Context) error {
	clearSession(ctx)
	return ctx.Redirect(http.StatusFound, "/login")
}
