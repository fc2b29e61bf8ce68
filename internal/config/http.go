package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HRequestID    = "X-Request-Id"
	HHxTrigger    = "Hx-Trigger"

	CTypeCSS   = "text/css"
	CTypeHTML  = "text/html"
	CTypeJSON  = "application/json"
	CTypePlain = "text/plain"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme       = "theme"
	CookieSyntaxTheme = "syntax-theme"
)
