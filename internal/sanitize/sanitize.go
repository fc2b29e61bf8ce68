// Package sanitize removes unwanted markup from HTML rendered by WordPress
// before it is injected into a page.
//
// It is a denylist, not an HTML sanitizer: only the elements matched by its
// rules are removed and every other byte is passed through. The default rules
// strip <script> elements first and rating widgets second.
//
// Clean repeats the rules until the output stops changing rather than making
// a single pass. A removal can splice the surrounding text into a new match,
// as in "<scr<script></script>ipt>", and one pass would let that through. The
// result is idempotent: cleaning cleaned output returns it unchanged. Callers
// that want exactly one pass can call Rule.Apply directly.
package sanitize

import "strings"

// Rule removes one kind of markup from an HTML fragment.
type Rule interface {
	Name() string
	Apply(html string) string
}

// Scripts removes <script> elements, tag names matched case-insensitively.
var Scripts = MustPatternRule("scripts", `(?is)<script\b.*?</script\s*>`)

// RatingWidgets removes elements whose class attribute contains "rating".
var RatingWidgets = NewClassRule("rating")

type Sanitizer struct {
	rules []Rule
}

func New(rules ...Rule) *Sanitizer {
	return &Sanitizer{rules: rules}
}

// Default returns a Sanitizer applying Scripts, then RatingWidgets.
func Default() *Sanitizer {
	return New(Scripts, RatingWidgets)
}

// WithClasses returns a Sanitizer that strips scripts and then every element
// whose class contains one of tokens. Empty tokens are ignored.
func WithClasses(tokens ...string) *Sanitizer {
	rules := []Rule{Scripts}
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == "rating" {
			rules = append(rules, RatingWidgets)
			continue
		}
		rules = append(rules, NewClassRule(token))
	}
	return New(rules...)
}

// Names lists the rule names in the order they are applied.
func (s *Sanitizer) Names() []string {
	names := make([]string, len(s.rules))
	for i, rule := range s.rules {
		names[i] = rule.Name()
	}
	return names
}

// Clean applies every rule in order, repeating the pass until nothing more is
// removed. Removing a span can join its neighbours into a new match, e.g.
// "<scr<script></script>ipt>", so a single pass is not enough.
func (s *Sanitizer) Clean(html string) string {
	for {
		out := html
		for _, rule := range s.rules {
			out = rule.Apply(out)
		}
		if out == html {
			return out
		}
		html = out
	}
}

func StripScripts(html string) string {
	return New(Scripts).Clean(html)
}

func StripRatingWidgets(html string) string {
	return New(RatingWidgets).Clean(html)
}

// Clean applies the default rules.
func Clean(html string) string {
	return Default().Clean(html)
}
