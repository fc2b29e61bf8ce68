package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/debemdeboas/recipe-archive/internal/theme"
)

var (
	// Gutenberg code block: <pre class="wp-block-code"><code>escaped source</code></pre>
	codeBlockPattern = regexp.MustCompile(`(?s)<pre\b([^>]*)>\s*<code\b([^>]*)>(.*?)</code>\s*</pre>`)
	blockClass       = regexp.MustCompile(`\bclass="[^"]*\bwp-block-code\b[^"]*"`)
	languageAttr     = regexp.MustCompile(`(?:\b(?:data-)?lang(?:uage)?="([\w+#.-]+)"|\blang(?:uage)?-([\w+#.-]+))`)
)

// HighlightCode renders code with chroma using CSS classes. When language is
// unknown the lexer is guessed from the code itself. On failure the code is
// returned HTML-escaped.
func HighlightCode(code, language, highlightTheme string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}

	var buf strings.Builder
	style := styles.Get(highlightTheme)
	formatter := theme.GetFormatter()
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return html.EscapeString(code)
	}

	return buf.String()
}

// HighlightCodeBlocks replaces every WordPress code block in content with
// chroma output. Other <pre> elements are left untouched.
func HighlightCodeBlocks(content, highlightTheme string) string {
	return codeBlockPattern.ReplaceAllStringFunc(content, func(block string) string {
		m := codeBlockPattern.FindStringSubmatch(block)
		preAttrs, codeAttrs, body := m[1], m[2], m[3]
		if !blockClass.MatchString(preAttrs) {
			return block
		}

		language := detectLanguage(codeAttrs)
		if language == "" {
			language = detectLanguage(preAttrs)
		}

		code := html.UnescapeString(body)
		renderLogger.Debug().Str("language", language).Int("bytes", len(code)).Msg("Highlighting code block")

		return `<div class="wp-block-code highlight">` + HighlightCode(code, language, highlightTheme) + `</div>`
	})
}

func detectLanguage(attrs string) string {
	m := languageAttr.FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
