package model

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/debemdeboas/recipe-archive/internal/config"
	"github.com/debemdeboas/recipe-archive/internal/theme"
)

type PageData struct {
	SiteName        string
	SiteTagline     string
	SiteDescription string
	SiteKeywords    []string
	SiteAuthor      string
	SiteLogo        string
	Favicon         string

	PageURL   string
	PageTitle string
	Query     string

	Theme               string
	AllowThemeSwitching bool

	SyntaxCSS    template.CSS
	SyntaxTheme  string
	SyntaxThemes []string

	NavPages []Page

	RequestID string
}

func NewPageData(r *http.Request) *PageData {
	cfg := config.AppConfig
	syntaxtheme := theme.GetSyntaxThemeFromRequest(r)
	return &PageData{
		SiteName:            cfg.Site.Name,
		SiteTagline:         cfg.Site.Tagline,
		SiteDescription:     cfg.Site.Description,
		SiteKeywords:        cfg.Meta.Keywords,
		SiteAuthor:          cfg.Meta.Author,
		SiteLogo:            cfg.Site.Logo,
		Favicon:             cfg.Meta.Favicon,
		PageURL:             r.URL.Path,
		Theme:               theme.GetThemeFromRequest(r),
		AllowThemeSwitching: cfg.Theme.AllowSwitching,
		SyntaxTheme:         syntaxtheme,
		SyntaxThemes:        theme.GetSyntaxThemes(),
		SyntaxCSS:           theme.GenerateSyntaxCSS(syntaxtheme),
		RequestID:           r.Header.Get(config.HRequestID),
	}
}

// FullTitle is the document title: the page title followed by the site name.
func (pd *PageData) FullTitle() string {
	if pd.PageTitle == "" {
		return pd.SiteName
	}
	return pd.PageTitle + " | " + pd.SiteName
}

func (pd *PageData) IsPost() bool {
	return strings.HasPrefix(pd.PageURL, config.PostsUrlPath)
}

func (pd *PageData) Keywords() string {
	return strings.Join(pd.SiteKeywords, ", ")
}

// ThemeIcon is the toggle icon for switching away from the current theme.
func (pd *PageData) ThemeIcon() template.HTML {
	return template.HTML(theme.GetThemeIcon(pd.Theme))
}
