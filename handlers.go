package pressroom

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pressroom/analytics"
	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/markdown"
	"github.com/eringen/pressroom/views"
)

// countVisit records one public page load. Counting never fails the page.
func (a *App) countVisit(c echo.Context) {
	if !a.Config.CountBots && analytics.IsBot(c.Request().UserAgent()) {
		return
	}
	if err := a.Posts.IncrementGlobalViewers(c.Request().Context()); err != nil {
		a.Logger.Error("count visit", zap.Error(err))
	}
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	a.countVisit(c)
	meta := views.Meta{Description: a.Config.Description, URL: BuildURL(a.Config.URL), OGType: "website"}
	return Render(c, a.Views.Home(a.chrome(c, meta), posts))
}

func (a *App) handlePosts(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	a.countVisit(c)
	meta := views.Meta{Title: "Blog", Description: a.Config.Description, URL: BuildURL(a.Config.URL, "posts"), OGType: "website"}
	return Render(c, a.Views.Feed(a.chrome(c, meta), posts))
}

// handlePostQuery serves /post/?s=<slug>, the query-string form of a post link.
func (a *App) handlePostQuery(c echo.Context) error {
	return a.renderPost(c, c.QueryParam("s"))
}

func (a *App) handlePost(c echo.Context) error {
	return a.renderPost(c, c.Param("slug"))
}

// renderPost resolves the slug, counts the view and renders the post.
// Drafts are only visible to a logged-in admin; previews count nothing.
func (a *App) renderPost(c echo.Context, slug string) error {
	ctx := c.Request().Context()
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return echo.ErrNotFound
	}
	post, err := a.Posts.BySlug(ctx, slug)
	if err != nil {
		return err
	}
	if post == nil || (!post.IsPublished() && !a.IsAdmin(c)) {
		return echo.ErrNotFound
	}
	if post.IsPublished() {
		if err := a.Posts.IncrementViews(ctx, post.ID); err != nil {
			return err
		}
		post.Views++
		a.countVisit(c)
	}
	meta := views.Meta{
		Title:       post.Title,
		Description: markdown.Plain(post.Content, 160),
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return Render(c, a.Views.Post(a.chrome(c, meta), *post))
}

func (a *App) handlePage(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	page, err := a.Cache.Page(ctx, slug)
	if err != nil {
		return err
	}
	if page != nil {
		a.countVisit(c)
	} else if a.IsAdmin(c) {
		if page, err = a.Pages.BySlug(ctx, slug); err != nil {
			return err
		}
	}
	if page == nil {
		return echo.ErrNotFound
	}
	meta := views.Meta{
		Title:       page.Title,
		Description: markdown.Plain(page.Content, 160),
		URL:         BuildURL(a.Config.URL, "page", page.Slug),
		OGType:      "website",
	}
	return Render(c, a.Views.Page(a.chrome(c, meta), *page))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Cache.Posts(ctx)
	if err != nil {
		return err
	}
	pages, err := a.Cache.Pages(ctx)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, pages)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// handleRobots serves the site's own robots.txt when present, else a
// default that keeps crawlers out of the admin panel.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	body := "User-agent: *\nDisallow: /admin/\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.errorChrome(c, "Not found")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		fields := []zap.Field{zap.Error(err), zap.String("uri", c.Request().RequestURI)}
		if errors.Is(err, content.ErrMalformed) {
			a.Logger.Error("stored content is malformed; repair the backend record", fields...)
		} else {
			a.Logger.Error("server error", fields...)
		}
		_ = RenderStatus(c, code, a.Views.ServerError(a.errorChrome(c, "Error")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// errorChrome avoids touching storage, which may be what failed.
func (a *App) errorChrome(c echo.Context, title string) views.Chrome {
	return views.Chrome{Meta: views.Meta{Title: title}, CSRF: CsrfToken(c)}
}
