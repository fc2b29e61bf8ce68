// Package theme resolves the page and syntax highlighting themes of a request
// and builds the chroma stylesheets for them.
//
// Cookie values are untrusted. Anything other than a known page theme or a
// registered chroma style is replaced by the configured default before it is
// used as a cache key or rendered into a page.
package theme

import (
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/recipe-archive/internal/cache"
	"github.com/debemdeboas/recipe-archive/internal/config"
)

// IsTheme reports whether name is one of the page themes.
func IsTheme(name string) bool {
	return name == config.LightTheme || name == config.DarkTheme
}

// IsSyntaxTheme reports whether name is a registered chroma style.
func IsSyntaxTheme(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// GetThemeFromRequest returns the page theme from the theme cookie, or the
// configured default when the cookie is missing or holds an unknown value.
func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && IsTheme(cookie.Value) {
		return cookie.Value
	}
	return config.AppConfig.Theme.Default
}

// Opposite returns the theme the toggle switches to from theme.
func Opposite(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

// GetDefaultSyntaxTheme returns the configured syntax theme for a page theme.
// An unknown page theme is treated as the default page theme, and a configured
// name chroma does not know resolves to chroma's fallback style.
func GetDefaultSyntaxTheme(theme string) string {
	syntax := config.AppConfig.Theme.SyntaxHighlighting
	if !IsTheme(theme) {
		theme = config.AppConfig.Theme.Default
	}

	name := syntax.DefaultDark
	if theme == config.LightTheme {
		name = syntax.DefaultLight
	}
	return resolveSyntaxTheme(name)
}

// GetSyntaxThemeFor returns the syntax theme cookie when it names a registered
// style, else the default syntax theme for pageTheme.
func GetSyntaxThemeFor(r *http.Request, pageTheme string) string {
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && IsSyntaxTheme(cookie.Value) {
		return cookie.Value
	}
	return GetDefaultSyntaxTheme(pageTheme)
}

func GetSyntaxThemeFromRequest(r *http.Request) string {
	return GetSyntaxThemeFor(r, GetThemeFromRequest(r))
}

func resolveSyntaxTheme(name string) string {
	if IsSyntaxTheme(name) {
		return name
	}
	return styles.Fallback.Name
}

func GetSyntaxThemes() []string {
	names := styles.Names()
	slices.Sort(names)
	return names
}

// GetFormatter returns the class-based formatter shared by code highlighting
// and stylesheet generation.
func GetFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(true),
		html.WrapLongLines(true),
	)
}

// GenerateSyntaxCSS returns the stylesheet for a syntax theme. Unknown names
// get the fallback style's stylesheet, cached under the fallback's name, so
// the cache holds at most one entry per registered style.
func GenerateSyntaxCSS(name string) template.CSS {
	name = resolveSyntaxTheme(name)
	if css, ok := cache.GetSyntaxCSS(name); ok {
		return css
	}

	style := styles.Get(name)

	var buf strings.Builder
	if textColour, ok := defaultTextColour(style); ok {
		buf.WriteString(".chroma { color: " + textColour + "; }\n")
	}
	GetFormatter().WriteCSS(&buf, style)

	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(name, css)
	return css
}

// defaultTextColour picks a dark text colour for styles that set a light
// background but no foreground.
func defaultTextColour(style *chroma.Style) (string, bool) {
	bg := style.Get(chroma.Background)
	if bg.Colour.IsSet() {
		return "", false
	}

	luminance := (0.299*float64(bg.Background.Red()) +
		0.587*float64(bg.Background.Green()) +
		0.114*float64(bg.Background.Blue())) / 255
	if luminance > 0.5 {
		return "#181818", true
	}
	return "", false
}

// GetThemeIcon returns the toggle icon shown while theme is active.
func GetThemeIcon(theme string) string {
	if theme == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}
