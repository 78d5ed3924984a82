// Package sanitizer holds the HTML policy applied to rendered email bodies.
package sanitizer

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy *bluemonday.Policy
	initOnce    sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowURLSchemes("tel")
		p.AllowElements(
			"p", "br", "hr", "span",
			"h1", "h2", "h3", "h4",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^btn$`)).OnElements("a")
		p.AllowStyles(
			"display", "padding", "color", "background-color",
			"text-decoration", "border-radius", "font-weight",
		).OnElements("a")
		emailPolicy = p
	})
}

// EmailFragment sanitizes a rendered Markdown fragment before it is placed
// into an email layout. Links keep href (http, https, mailto, tel) and the
// button class; scripts, event handlers and other markup are removed.
func EmailFragment(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}
