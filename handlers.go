package main

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/debemdeboas/recipe-archive/internal/config"
	"github.com/debemdeboas/recipe-archive/internal/model"
	"github.com/debemdeboas/recipe-archive/internal/render"
	"github.com/debemdeboas/recipe-archive/internal/repository"
	"github.com/debemdeboas/recipe-archive/internal/routes"
	"github.com/debemdeboas/recipe-archive/internal/theme"
	"github.com/debemdeboas/recipe-archive/internal/util"
)

type errorData struct {
	*model.PageData
	Status  int
	Message string
}

// newPageData fills the layout data, including the navigation pages.
func newPageData(r *http.Request) *model.PageData {
	pd := model.NewPageData(r)
	pd.NavPages = postRepository.GetPages(r.Context())
	return pd
}

// renderPage writes the rendered template with status, or the generic error
// page if rendering fails.
func renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	out, err := renderer.Render(page, data)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msgf(config.ErrRenderPageFmt, page, err)
		serveError(w, r, http.StatusInternalServerError, config.MsgSomethingWentWrong)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML+"; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

func serveError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := errorData{
		PageData: model.NewPageData(r),
		Status:   status,
		Message:  message,
	}
	data.PageTitle = message

	out, err := renderer.Render(config.TemplateError, data)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error page failed to render")
		http.Error(w, message, status)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML+"; charset=utf-8")
	w.WriteHeader(status)
	w.Write(out)
}

func serveNotFound(w http.ResponseWriter, r *http.Request) {
	serveError(w, r, http.StatusNotFound, config.MsgPageNotFound)
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		posts      []model.Post
		postsErr   error
		navPages   []model.Page
		categories []model.Category
	)

	var g errgroup.Group
	g.Go(func() error {
		posts, postsErr = postRepository.GetPostList(ctx)
		return nil
	})
	g.Go(func() error {
		navPages = postRepository.GetPages(ctx)
		return nil
	})
	g.Go(func() error {
		categories = postRepository.GetCategories(ctx)
		return nil
	})
	g.Wait()

	if postsErr != nil {
		hlog.FromRequest(r).Error().Err(postsErr).Msgf(config.ErrGetPostsFmt, postsErr)
	}

	pd := model.NewPageData(r)
	pd.NavPages = navPages

	data := struct {
		*model.PageData
		Posts       []model.Post
		Categories  []model.Category
		Unavailable bool
	}{
		PageData:    pd,
		Posts:       posts,
		Categories:  categories,
		Unavailable: postsErr != nil,
	}

	renderPage(w, r, http.StatusOK, config.TemplateIndex, data)
}

func servePost(w http.ResponseWriter, r *http.Request) {
	postSlug := r.PathValue("slug")
	if !slug.IsSlug(postSlug) {
		serveError(w, r, http.StatusNotFound, config.MsgPostNotFound)
		return
	}

	post, err := postRepository.ReadPost(r.Context(), postSlug)
	switch {
	case errors.Is(err, repository.ErrPostNotFound):
		serveError(w, r, http.StatusNotFound, config.MsgPostNotFound)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msgf(config.ErrReadPostFmt, postSlug, err)
		serveError(w, r, http.StatusServiceUnavailable, config.MsgSourceUnavailable)
		return
	}

	pd := newPageData(r)
	pd.PageTitle = post.TitleText

	if config.AppConfig.Content.HighlightCode {
		post.Content = template.HTML(render.HighlightCodeBlocksCached(string(post.Content), post.ContentHash, pd.SyntaxTheme))
	}

	data := struct {
		*model.PageData
		Post *model.Post
	}{
		PageData: pd,
		Post:     post,
	}

	renderPage(w, r, http.StatusOK, config.TemplatePost, data)
}

func servePage(w http.ResponseWriter, r *http.Request) {
	pageSlug := r.PathValue("slug")
	if !slug.IsSlug(pageSlug) {
		serveNotFound(w, r)
		return
	}

	page, err := postRepository.ReadPage(r.Context(), pageSlug)
	switch {
	case errors.Is(err, repository.ErrPageNotFound):
		serveNotFound(w, r)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("slug", pageSlug).Msg("Failed to read page")
		serveError(w, r, http.StatusServiceUnavailable, config.MsgSourceUnavailable)
		return
	}

	pd := newPageData(r)
	pd.PageTitle = page.TitleText

	data := struct {
		*model.PageData
		Page *model.Page
	}{
		PageData: pd,
		Page:     page,
	}

	renderPage(w, r, http.StatusOK, config.TemplatePage, data)
}

func serveSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get(routes.SearchParam))
	if term == "" {
		http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
		return
	}

	posts, err := postRepository.SearchPosts(r.Context(), term)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msgf(config.ErrSearchFmt, err)
	}

	pd := newPageData(r)
	pd.Query = term
	pd.PageTitle = fmt.Sprintf("Search: %s", term)

	data := struct {
		*model.PageData
		Posts       []model.Post
		Unavailable bool
	}{
		PageData:    pd,
		Posts:       posts,
		Unavailable: err != nil,
	}

	renderPage(w, r, http.StatusOK, config.TemplateSearch, data)
}

func serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, config.CTypePlain)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow: " + routes.SearchPath + "\n"))
}

func serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    newTheme,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})

	// Without htmx, send the browser back where it came from.
	if r.Header.Get("Hx-Request") == "" {
		http.Redirect(w, r, localReferer(r), http.StatusSeeOther)
		return
	}

	syntaxTheme := theme.GetSyntaxThemeFor(r, newTheme)

	w.Header().Set(config.HHxTrigger, fmt.Sprintf(`{"themeChanged":{"value":%q,"syntaxTheme":%q}}`, newTheme, syntaxTheme))
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

// localReferer returns the path and query of the Referer when it points at
// this host, else the root path.
func localReferer(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return routes.RootPath
	}

	back := u.EscapedPath()
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		return routes.RootPath
	}
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}

func serveThemeOppositeIcon(w http.ResponseWriter, r *http.Request) {
	currTheme := r.URL.Query().Get("theme")
	if currTheme == "" {
		http.Error(w, "theme required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(currTheme)))
}

func serveSyntaxThemeSet(w http.ResponseWriter, r *http.Request) {
	currTheme := r.FormValue("syntax-theme-select")
	if !theme.IsSyntaxTheme(currTheme) {
		http.Error(w, "unknown syntax theme", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSyntaxTheme,
		Value:    currTheme,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeSyntaxCSS(w, r, currTheme)
}

func serveSyntaxThemeGet(w http.ResponseWriter, r *http.Request) {
	currTheme := r.PathValue("theme")
	if !theme.IsSyntaxTheme(currTheme) {
		http.NotFound(w, r)
		return
	}

	writeSyntaxCSS(w, r, currTheme)
}

func writeSyntaxCSS(w http.ResponseWriter, r *http.Request, syntaxTheme string) {
	css := string(theme.GenerateSyntaxCSS(syntaxTheme))
	if config.AppConfig.Content.Minify {
		if minified, err := render.MinifyCSS(css); err == nil {
			css = minified
		} else {
			hlog.FromRequest(r).Warn().Err(err).Str("theme", syntaxTheme).Msg("Syntax CSS minification failed")
		}
	}

	themeStyle := []byte(css)
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}
