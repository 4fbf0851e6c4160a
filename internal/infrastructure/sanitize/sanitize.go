package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans rich-text HTML before it is stored or rendered
type Sanitizer struct {
	content *bluemonday.Policy
	strict  *bluemonday.Policy
}

// New creates a sanitizer with the blog content policy
func New() *Sanitizer {
	return &Sanitizer{
		content: contentPolicy(),
		strict:  bluemonday.StrictPolicy(),
	}
}

// contentPolicy allows the formatting a rich text editor produces
// while stripping anything that could carry script
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "em", "u", "s", "sub", "sup",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "code", "pre",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span",
		"hr",
	)

	p.AllowAttrs("class", "id").Globally()

	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	p.AllowStyles(
		"color", "background-color",
		"font-family", "font-size", "font-weight", "font-style",
		"text-align", "text-decoration",
		"width", "height", "max-width", "max-height",
		"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
		"border", "border-width", "border-color", "border-style",
	).OnElements("img", "div", "span", "p", "td", "th")

	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.RequireNoFollowOnLinks(false)
	p.AllowImages()
	p.AllowRelativeURLs(true)

	return p
}

// HTML sanitizes rich-text HTML, stripping disallowed tags and attributes
func (s *Sanitizer) HTML(html string) string {
	if html == "" {
		return ""
	}
	return s.content.Sanitize(html)
}

// Strip removes all HTML tags, leaving only text
func (s *Sanitizer) Strip(html string) string {
	if html == "" {
		return ""
	}
	return s.strict.Sanitize(html)
}

// Excerpt creates a plain text excerpt from HTML content,
// truncated at a word boundary with an ellipsis
func (s *Sanitizer) Excerpt(html string, maxLength int) string {
	if html == "" {
		return ""
	}

	plain := strings.Join(strings.Fields(s.Strip(html)), " ")

	if len(plain) <= maxLength {
		return plain
	}

	// back off to a rune boundary so the cut never splits UTF-8
	n := maxLength
	for n > 0 && !utf8.RuneStart(plain[n]) {
		n--
	}
	cut := plain[:n]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
