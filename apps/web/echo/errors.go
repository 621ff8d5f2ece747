package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
)

// newAppHTTPErrorHandler renders errors as HTML pages instead of echo's
// default JSON body. Unknown errors are logged and masked with a generic 500;
// shutdown errors additionally stop the server gracefully.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			logger.Error("unexpected error", err)
		}

		data := map[string]interface{}{
			"Code":    code,
			"Message": msg,
		}
		if rerr := ctx.Render(code, "error.html", data); rerr != nil {
			logger.Error("rendering error page", rerr)
		}

		if core.IsShutdown(err) {
			signalShutdown()
		}
	}
}
