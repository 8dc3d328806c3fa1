package pressroom

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/views"
)

// msgStorageFull is shown when the backend refuses a write.
const msgStorageFull = "Error saving: storage might be full!"

// handleAdmin shows the dashboard to a logged-in admin, the login form once
// the passcode was accepted in this browser, and the passcode form otherwise.
func (a *App) handleAdmin(c echo.Context) error {
	ch := a.chrome(c, views.Meta{Title: "Admin"})
	if ch.LoggedIn {
		return a.renderAdminDashboard(c, ch)
	}
	if passcodeVerified(c) {
		return Render(c, a.Views.Login(ch, false))
	}
	return Render(c, a.Views.Passcode(ch, false))
}

func (a *App) handlePasscode(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	code := c.FormValue("passcode")
	if code == "" {
		if err := c.Request().ParseForm(); err != nil {
			return err
		}
		code = strings.Join(c.Request().Form["digit"], "")
	}
	if !a.gate(c).VerifyPasscode(code) {
		a.loginLimiter.Record(ip)
		a.Logger.Warn("passcode rejected", zap.String("ip", ip))
		return Render(c, a.Views.Passcode(a.chrome(c, views.Meta{Title: "Admin"}), true))
	}
	if err := setPasscodeVerified(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !passcodeVerified(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	ok, err := a.gate(c).Login(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return err
	}
	if !ok {
		a.loginLimiter.Record(ip)
		a.Logger.Warn("login rejected", zap.String("ip", ip))
		return Render(c, a.Views.Login(a.chrome(c, views.Meta{Title: "Admin"}), true))
	}
	a.Logger.Info("admin logged in", zap.String("ip", ip))
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := a.gate(c).Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, ch views.Chrome) error {
	ctx := c.Request().Context()
	q := strings.TrimSpace(c.QueryParam("q"))
	posts, err := a.Posts.Search(ctx, q)
	if err != nil {
		return err
	}
	pages, err := a.Pages.All(ctx)
	if err != nil {
		return err
	}
	stats, err := a.Posts.Stats(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Dashboard(ch, views.Dashboard{
		Stats:   stats,
		Posts:   posts,
		Pages:   pages,
		Query:   q,
		Message: c.QueryParam("msg"),
	}))
}

func redirectWithMessage(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

// editor serves the admin CRUD routes of one collection.
type editor struct {
	app         *App
	kind        string
	store       *content.Store
	attachments bool
	form        func(views.Chrome, views.Form) templ.Component
}

func (a *App) postEditor() editor {
	return editor{app: a, kind: "posts", store: a.Posts, attachments: true, form: a.Views.PostForm}
}

func (a *App) pageEditor() editor {
	return editor{app: a, kind: "pages", store: a.Pages, form: a.Views.PageForm}
}

func (ed editor) noun() string {
	return ed.store.Collection().Noun
}

func (ed editor) render(c echo.Context, code int, f views.Form) error {
	f.Kind = ed.kind
	f.Noun = ed.noun()
	f.Attachments = ed.attachments
	title := "New " + f.Noun
	if !f.IsNew {
		title = "Edit " + f.Noun
	}
	return RenderStatus(c, code, ed.form(ed.app.chrome(c, views.Meta{Title: title}), f))
}

func (ed editor) handleNew(c echo.Context) error {
	return ed.render(c, http.StatusOK, views.Form{IsNew: true})
}

func (ed editor) handleEdit(c echo.Context) error {
	id, ok := content.ParseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	rec, err := ed.store.ByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if rec == nil {
		return echo.ErrNotFound
	}
	return ed.render(c, http.StatusOK, views.Form{Record: *rec})
}

func (ed editor) input(c echo.Context) (content.Input, error) {
	in := content.Input{
		Title:   strings.TrimSpace(c.FormValue("title")),
		Content: c.FormValue("content"),
		Status:  content.Status(c.FormValue("status")),
	}
	img, err := imageInput(c, ed.app.Config.MaxUploadBytes)
	if err != nil {
		return in, err
	}
	in.Image = img
	if ed.attachments {
		att, err := attachmentInput(c, ed.app.Config.MaxUploadBytes)
		if err != nil {
			return in, err
		}
		in.Attachment = att
	}
	return in, nil
}

// handleSave creates a record, or updates it when the form carries an id.
// Uploads are fully read before the store is touched.
func (ed editor) handleSave(c echo.Context) error {
	ctx := c.Request().Context()
	id, existing := content.ParseID(c.FormValue("id"))

	in, err := ed.input(c)
	draft := views.Form{
		IsNew:  !existing,
		Record: content.Record{ID: id, Title: in.Title, Content: in.Content, Status: in.Status},
	}
	if errors.Is(err, errUpload) {
		draft.Error = strings.TrimPrefix(err.Error(), errUpload.Error()+": ")
		return ed.render(c, http.StatusBadRequest, draft)
	}
	if err != nil {
		return err
	}

	var rec *content.Record
	if existing {
		rec, err = ed.store.Update(ctx, id, in)
		if err == nil && rec == nil {
			return echo.ErrNotFound
		}
	} else {
		rec, err = ed.store.Create(ctx, in)
	}
	switch {
	case errors.Is(err, content.ErrInvalidInput):
		draft.Error = "Could not save: " + strings.TrimPrefix(err.Error(), content.ErrInvalidInput.Error()+": ")
		return ed.render(c, http.StatusUnprocessableEntity, draft)
	case errors.Is(err, content.ErrStorage):
		ed.app.Logger.Error("save "+ed.noun(), zap.Error(err))
		draft.Error = msgStorageFull
		return ed.render(c, http.StatusInsufficientStorage, draft)
	case err != nil:
		return err
	}

	ed.app.Cache.Invalidate()
	ed.app.Logger.Info(ed.noun()+" saved", zap.Int64("id", rec.ID), zap.String("slug", rec.Slug))
	return redirectWithMessage(c, capitalize(ed.noun())+" saved.")
}

func (ed editor) handleDelete(c echo.Context) error {
	id, ok := content.ParseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	if err := ed.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, content.ErrStorage) {
			ed.app.Logger.Error("delete "+ed.noun(), zap.Error(err))
			return redirectWithMessage(c, msgStorageFull)
		}
		return err
	}
	ed.app.Cache.Invalidate()
	return redirectWithMessage(c, capitalize(ed.noun())+" deleted.")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
