// Package pressroom is a small blog content manager built with Go and Echo.
// It provides post and page CRUD behind a passcode and login gate, a public
// site with RSS and sitemap, and a visitor counter, all persisted as JSON
// blobs in a pluggable key-value backend.
//
// Sites can replace any page through ViewFuncs; pressroom handles the
// handlers, middleware and storage.
package pressroom

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pressroom/analytics"
	"github.com/eringen/pressroom/auth"
	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/kv"
	"github.com/eringen/pressroom/views"
)

// App is the central pressroom application. It wires together the stores,
// cache, handlers, middleware, and views.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Posts   *content.Store
	Pages   *content.Store
	Viewers *analytics.Counter
	Cache   *ContentCache
	Views   ViewFuncs
	Logger  *zap.Logger

	backend      kv.Backend
	ownsBackend  bool
	auth         auth.Authenticator
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
	ready        bool
}

// New creates a new pressroom App with the given configuration and view functions.
func New(cfg SiteConfig, vf ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     vf,
		Logger:    zap.NewNop(),
		staticDir: "public",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens storage and registers middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("pressroom: invalid config: %w", err)
	}

	defaults, err := views.New(a.site())
	if err != nil {
		return fmt.Errorf("pressroom: parse views: %w", err)
	}
	a.Views = a.Views.withDefaults(DefaultViews(defaults))

	if a.backend == nil {
		b, err := OpenBackend(a.Config)
		if err != nil {
			return fmt.Errorf("pressroom: open %s storage: %w", a.Config.Storage, err)
		}
		a.backend = b
		a.ownsBackend = true
	}

	a.Viewers = analytics.NewCounter(a.backend, analytics.StatsKey)
	storeOpts := []content.Option{
		content.WithClock(a.now),
		content.WithLogger(a.Logger),
	}
	a.Posts = content.NewStore(a.backend, content.Posts,
		append(storeOpts, content.WithViewerCounter(a.Viewers))...)
	a.Pages = content.NewStore(a.backend, content.Pages, storeOpts...)
	a.Cache = NewContentCache(a.Posts, a.Pages, a.Config.CacheTTL)
	a.auth = a.Config.authenticator()
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start runs Setup and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Logger.Info("listening", zap.String("addr", a.Config.Addr), zap.String("storage", a.Config.Storage))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (site.css, admin.js) are served under /public/ and
	// fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/admin.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handlePosts)
	e.GET("/post/", a.handlePostQuery)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/page/:slug/", a.handlePage)

	// Admin gate
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/passcode/", a.handlePasscode)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	// Admin content
	for _, ed := range []editor{a.postEditor(), a.pageEditor()} {
		g := e.Group("/admin/"+ed.kind, a.requireAdmin)
		g.GET("/new/", ed.handleNew)
		g.GET("/:id/", ed.handleEdit)
		g.POST("/save/", ed.handleSave)
		g.POST("/:id/delete/", ed.handleDelete)
	}
}

// Close releases storage opened by Setup.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.ownsBackend && a.backend != nil {
		return a.backend.Close()
	}
	return nil
}
