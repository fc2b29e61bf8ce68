// Package routes defines HTTP route constants for the application.
package routes

// Page routes
const (
	RootPath   = "/"
	PostPath   = "/post/{slug}"
	PagePath   = "/page/{slug}"
	SearchPath = "/search"

	// Query parameter carrying the search term
	SearchParam = "q"
)

// Theme routes
const (
	ThemeToggle       = "/theme/toggle"
	ThemeOppositeIcon = "/theme/opposite-icon"
	SyntaxThemeSet    = "/syntax-theme/set"
	SyntaxThemeGet    = "/syntax-theme/{theme}"
)

// Static and assets
const (
	RobotsPath = "/robots.txt"
	HealthPath = "/health"
)
