package update

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

var (
	// ErrInvalidXPath is returned when the XPath expression syntax is invalid
	ErrInvalidXPath = errors.New("invalid XPath expression")
	// ErrNoElementFound is returned when no element matches the selector/xpath
	ErrNoElementFound = errors.New("no element found matching selector")
	// ErrNoSelectorOrXPath is returned when neither selector nor xpath is provided
	ErrNoSelectorOrXPath = errors.New("either selector or xpath must be provided")
	// ErrInvalidRegexPattern is returned when the tag pattern does not compile
	ErrInvalidRegexPattern = errors.New("invalid regex pattern")
	// ErrRegexNoMatch is returned when no tag link carries a tag matching the pattern
	ErrRegexNoMatch = errors.New("regex did not match")
)

// Defaults for the GitHub tags page: release tag links, newest first
const (
	TagSelector = `a[href*="/releases/tag/"]`
	TagXPath    = `//a[contains(@href, "/releases/tag/")]`
	TagRegex    = `^v?\d+(?:\.\d+)+(?:[-_.]?(?:alpha|beta|pre|rc)\.?\d*)?$`
)

// TagParser finds the newest tag on an HTML tags page. Tag links are located
// with a CSS selector, an XPath expression, or both; the XPath is tried when
// the selector matches nothing.
type TagParser struct {
	Selector string
	XPath    string
	// Regex filters candidate tags; the first link whose tag matches wins
	Regex string

	compiled *regexp.Regexp
}

// tagLink is one candidate element: its href and visible text
type tagLink struct {
	href string
	text string
}

// NewTagParser creates a TagParser; at least one of selector or xpath is required
func NewTagParser(selector, xpath, regex string) (*TagParser, error) {
	if selector == "" && xpath == "" {
		return nil, ErrNoSelectorOrXPath
	}

	p := &TagParser{Selector: selector, XPath: xpath, Regex: regex}
	if regex != "" {
		re, err := regexp.Compile(regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegexPattern, err)
		}
		p.compiled = re
	}
	return p, nil
}

// DefaultTagParser matches release tag links on a GitHub tags page
func DefaultTagParser() *TagParser {
	p, _ := NewTagParser(TagSelector, TagXPath, TagRegex)
	return p
}

// Parse returns the raw tag (as published, "v" prefix included) of the first
// matching link.
func (p *TagParser) Parse(content []byte) (string, error) {
	if p.Selector == "" && p.XPath == "" {
		return "", ErrNoSelectorOrXPath
	}
	if p.Regex != "" && p.compiled == nil {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidRegexPattern, err)
		}
		p.compiled = re
	}

	var links []tagLink
	var err error
	if p.Selector != "" {
		links, err = p.linksByCSS(content)
	}
	if p.Selector == "" || (err != nil && p.XPath != "") {
		links, err = p.linksByXPath(content)
	}
	if err != nil {
		return "", err
	}

	var tried []string
	for _, l := range links {
		tag := l.tag()
		if tag == "" {
			continue
		}
		if p.compiled == nil || p.compiled.MatchString(tag) {
			return tag, nil
		}
		tried = append(tried, tag)
	}

	if len(tried) > 0 {
		return "", fmt.Errorf("%w: pattern %q rejected %q", ErrRegexNoMatch, p.Regex, tried)
	}
	return "", ErrNoVersionFound
}

// tag prefers the path segment after /tag/ in the href, then the link text
func (l tagLink) tag() string {
	if i := strings.LastIndex(l.href, "/tag/"); i >= 0 {
		after := l.href[i+len("/tag/"):]
		if i := strings.IndexAny(after, "?#"); i >= 0 {
			after = after[:i]
		}
		after = strings.Trim(after, "/")
		if unescaped, err := url.PathUnescape(after); err == nil {
			after = unescaped
		}
		if after != "" {
			return after
		}
	}
	return strings.TrimSpace(l.text)
}

// linksByCSS collects the elements matching the selector (goquery)
func (p *TagParser) linksByCSS(content []byte) ([]tagLink, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(p.Selector)
	if selection.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoElementFound, p.Selector)
	}

	links := make([]tagLink, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, tagLink{href: href, text: s.Text()})
	})
	return links, nil
}

// linksByXPath collects the nodes matching the expression (htmlquery)
func (p *TagParser) linksByXPath(content []byte) ([]tagLink, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, p.XPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXPath, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoElementFound, p.XPath)
	}

	links := make([]tagLink, 0, len(nodes))
	for _, n := range nodes {
		links = append(links, tagLink{href: htmlquery.SelectAttr(n, "href"), text: htmlquery.InnerText(n)})
	}
	return links, nil
}
