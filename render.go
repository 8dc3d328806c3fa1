package pressroom

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pressroom/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// chrome collects the per-request page state. A failure to load the page
// navigation is logged and the page renders without it.
func (a *App) chrome(c echo.Context, meta views.Meta) views.Chrome {
	nav, err := a.Cache.Pages(c.Request().Context())
	if err != nil {
		a.Logger.Error("load navigation", zap.Error(err))
	}
	return views.Chrome{
		Meta:     meta,
		Nav:      nav,
		CSRF:     CsrfToken(c),
		LoggedIn: a.IsAdmin(c),
	}
}
