// Package views is pressroom's default look: embedded html/template pages
// exposed as templ components so a site can mix them with its own templ
// views.
package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"

	"github.com/eringen/pressroom/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site holds site-wide settings shown on every page.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// Meta carries per-page OpenGraph and SEO metadata into the <head>.
type Meta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Chrome is the per-request state every page needs besides its own data.
type Chrome struct {
	Meta     Meta
	Nav      []content.Record // published pages linked from the header
	CSRF     string
	LoggedIn bool
}

// Dashboard is the admin overview.
type Dashboard struct {
	Stats   content.Stats
	Posts   []content.Record
	Pages   []content.Record
	Query   string
	Message string
}

// Form is the edit form for a post or a page.
type Form struct {
	Kind        string // "posts" or "pages"; used in form actions
	Noun        string
	IsNew       bool
	Attachments bool
	Record      content.Record
	Error       string
}

type page struct {
	Chrome
	Site   Site
	Admin  bool
	JSONLD template.JS
	Data   any
}

var pageNames = []string{
	"home", "feed", "post", "page", "notfound", "servererror",
	"passcode", "login", "dashboard", "form",
}

// Set is a parsed collection of page templates.
type Set struct {
	site      Site
	templates map[string]*template.Template
}

// New parses the embedded templates. Each page is paired with the layout
// and the shared partials.
func New(site Site) (*Set, error) {
	s := &Set{site: site, templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}
	return s, nil
}

// must is like New but panics on a parse error.
func must(s *Set, err error) *Set {
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) render(name string, p page) templ.Component {
	p.Site = s.site
	return templ.FromGoHTML(s.templates[name], p)
}

// Home lists the latest posts.
func (s *Set) Home(ch Chrome, posts []content.Record) templ.Component {
	if len(posts) > 3 {
		posts = posts[:3]
	}
	return s.render("home", page{Chrome: ch, JSONLD: WebsiteJsonLD(s.site), Data: posts})
}

// Feed lists every published post.
func (s *Set) Feed(ch Chrome, posts []content.Record) templ.Component {
	return s.render("feed", page{Chrome: ch, Data: posts})
}

// Post shows a single post.
func (s *Set) Post(ch Chrome, post content.Record) templ.Component {
	return s.render("post", page{Chrome: ch, JSONLD: BlogPostingJsonLD(s.site, post), Data: post})
}

// Page shows a single static page.
func (s *Set) Page(ch Chrome, pg content.Record) templ.Component {
	return s.render("page", page{Chrome: ch, Data: pg})
}

func (s *Set) NotFound(ch Chrome) templ.Component {
	return s.render("notfound", page{Chrome: ch})
}

func (s *Set) ServerError(ch Chrome) templ.Component {
	return s.render("servererror", page{Chrome: ch})
}

// Passcode is the first admin step.
func (s *Set) Passcode(ch Chrome, failed bool) templ.Component {
	return s.render("passcode", page{Chrome: ch, Admin: true, Data: failed})
}

// Login asks for credentials once the passcode was accepted.
func (s *Set) Login(ch Chrome, failed bool) templ.Component {
	return s.render("login", page{Chrome: ch, Admin: true, Data: failed})
}

func (s *Set) Dashboard(ch Chrome, d Dashboard) templ.Component {
	return s.render("dashboard", page{Chrome: ch, Admin: true, Data: d})
}

func (s *Set) Form(ch Chrome, f Form) templ.Component {
	return s.render("form", page{Chrome: ch, Admin: true, Data: f})
}
