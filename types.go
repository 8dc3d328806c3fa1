package pressroom

import (
	"github.com/a-h/templ"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/views"
)

// ViewFuncs holds the components the handlers render. Any field left nil
// falls back to the embedded default views, so a site can replace only the
// pages it cares about.
type ViewFuncs struct {
	Home        func(ch views.Chrome, posts []content.Record) templ.Component
	Feed        func(ch views.Chrome, posts []content.Record) templ.Component
	Post        func(ch views.Chrome, post content.Record) templ.Component
	Page        func(ch views.Chrome, page content.Record) templ.Component
	NotFound    func(ch views.Chrome) templ.Component
	ServerError func(ch views.Chrome) templ.Component
	Passcode    func(ch views.Chrome, failed bool) templ.Component
	Login       func(ch views.Chrome, failed bool) templ.Component
	Dashboard   func(ch views.Chrome, d views.Dashboard) templ.Component
	PostForm    func(ch views.Chrome, f views.Form) templ.Component
	PageForm    func(ch views.Chrome, f views.Form) templ.Component
}

// DefaultViews maps a parsed view set onto ViewFuncs.
func DefaultViews(s *views.Set) ViewFuncs {
	return ViewFuncs{
		Home:        s.Home,
		Feed:        s.Feed,
		Post:        s.Post,
		Page:        s.Page,
		NotFound:    s.NotFound,
		ServerError: s.ServerError,
		Passcode:    s.Passcode,
		Login:       s.Login,
		Dashboard:   s.Dashboard,
		PostForm:    s.Form,
		PageForm:    s.Form,
	}
}

// withDefaults fills every nil field from d.
func (v ViewFuncs) withDefaults(d ViewFuncs) ViewFuncs {
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Feed == nil {
		v.Feed = d.Feed
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.Page == nil {
		v.Page = d.Page
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	if v.Passcode == nil {
		v.Passcode = d.Passcode
	}
	if v.Login == nil {
		v.Login = d.Login
	}
	if v.Dashboard == nil {
		v.Dashboard = d.Dashboard
	}
	if v.PostForm == nil {
		v.PostForm = d.PostForm
	}
	if v.PageForm == nil {
		v.PageForm = d.PageForm
	}
	return v
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}
