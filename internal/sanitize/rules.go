package sanitize

import (
	"regexp"
	"strings"

	"github.com/debemdeboas/recipe-archive/internal/cache"
)

// PatternRule deletes every match of a regular expression.
type PatternRule struct {
	name    string
	pattern *regexp.Regexp
}

func NewPatternRule(name, expr string) (*PatternRule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &PatternRule{name: name, pattern: re}, nil
}

func MustPatternRule(name, expr string) *PatternRule {
	r, err := NewPatternRule(name, expr)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *PatternRule) Name() string { return r.name }

func (r *PatternRule) Apply(html string) string {
	return r.pattern.ReplaceAllLiteralString(html, "")
}

// ClassRule deletes elements whose class attribute contains token, from the
// opening tag through the first closing tag of the same name. The token match
// is case-sensitive. An opening tag with no closing tag is left alone.
type ClassRule struct {
	token string
	open  *regexp.Regexp
}

func NewClassRule(token string) *ClassRule {
	return &ClassRule{
		token: token,
		open: regexp.MustCompile(
			`(?s)<([A-Za-z][A-Za-z0-9]*)\b[^>]*?class="[^"]*?` + regexp.QuoteMeta(token) + `[^"]*?"[^>]*?>`),
	}
}

func (r *ClassRule) Name() string { return "class:" + r.token }

func (r *ClassRule) Apply(html string) string {
	var b strings.Builder
	rest := html
	for {
		loc := r.open.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}

		tag := rest[loc[2]:loc[3]]
		after := rest[loc[1]:]
		end := closingTag(tag).FindStringIndex(after)
		if end == nil {
			b.WriteString(rest[:loc[1]])
			rest = after
			continue
		}

		b.WriteString(rest[:loc[0]])
		rest = after[end[1]:]
	}
}

var closingTags = cache.NewCache[string, *regexp.Regexp]()

func closingTag(tag string) *regexp.Regexp {
	key := strings.ToLower(tag)
	if re, ok := closingTags.Get(key); ok {
		return re
	}
	re := regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(key) + `\s*>`)
	closingTags.Set(key, re)
	return re
}
