// Package render turns sanitized WordPress HTML and templates into the bytes
// sent to the browser: code blocks are highlighted with chroma and pages are
// minified.
package render

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/recipe-archive/internal/cache"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// Mutex to protect the check-render-set operation in HighlightCodeBlocksCached
var renderCacheMutex sync.Mutex

// HighlightCodeBlocksCached is HighlightCodeBlocks memoized by content hash
// and syntax theme.
func HighlightCodeBlocksCached(content, contentHash, syntaxTheme string) string {
	if contentHash == "" {
		renderLogger.Warn().Msg("Content hash is empty, skipping cache check")
		return HighlightCodeBlocks(content, syntaxTheme)
	}

	if cached, found := cache.GetRenderedHTML(contentHash, syntaxTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache hit for highlighted content")
		return string(cached)
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("syntaxTheme", syntaxTheme).Msg("Cache miss for highlighted content")
	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	// Another goroutine may have filled the entry while we waited.
	if cached, found := cache.GetRenderedHTML(contentHash, syntaxTheme); found {
		return string(cached)
	}

	highlighted := HighlightCodeBlocks(content, syntaxTheme)
	cache.SetRenderedHTML(contentHash, syntaxTheme, []byte(highlighted))
	return highlighted
}
