// Package ids derives and parses the addon's content identifiers.
//
// The wire format is "<sourceTag>:<slug>" where the slug may itself contain
// further colon-delimited segments for sub-items, e.g.
// "animesdrive:animesdrive-blog-naruto:naruto-episodio-1". Every component
// splits ids on colons and rebuilds source URLs from the slug, so the format
// must survive round trips unchanged.
package ids

import (
	"net/url"
	"regexp"
	"strings"
)

// Separator joins the collapsed non-word runs inside a slug.
const Separator = "-"

var (
	schemeRe  = regexp.MustCompile(`(?i)^https?://`)
	nonWordRe = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
)

// Slugify collapses a URL or link into a URL-safe token: the scheme is
// stripped and every non-alphanumeric run becomes a single separator.
// The same input always yields the same slug.
func Slugify(raw string) string {
	s := schemeRe.ReplaceAllString(strings.TrimSpace(raw), "")
	s = nonWordRe.ReplaceAllString(s, Separator)
	return strings.Trim(s, Separator)
}

// New derives a catalog entry id from a source tag and the page URL the
// entry was scraped from.
func New(tag, sourceURL string) string {
	return tag + ":" + Slugify(sourceURL)
}

// Sub composes a sub-item (episode) id from its parent id and the episode
// link href. Only the path portion of the href contributes to the slug.
func Sub(parentID, href string) string {
	return parentID + ":" + PathSlug(href)
}

// PathSlug slugifies the path portion of an href, with scheme and host
// stripped and leading/trailing separators trimmed.
func PathSlug(href string) string {
	if u, err := url.Parse(strings.TrimSpace(href)); err == nil && u.Path != "" {
		if u.Host != "" || u.Scheme != "" {
			return Slugify(u.Path)
		}
	}
	return Slugify(href)
}

// Split separates an id into its source tag and the remaining slug.
// The slug may still contain colon-delimited sub-item segments.
func Split(id string) (tag, slug string) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Segments splits the slug portion into its colon-delimited segments.
// A plain item id has one segment; an episode id has two or more, with
// the episode slug last.
func Segments(slug string) []string {
	if slug == "" {
		return nil
	}
	return strings.Split(slug, ":")
}
