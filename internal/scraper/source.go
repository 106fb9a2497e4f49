// Package scraper orchestrates fetching and extraction per upstream site
// and exposes the three addon operations: catalog listing, detail
// resolution and stream resolution. Nothing in this package returns an
// error to its caller; failures degrade to empty or fallback results.
package scraper

import "net/url"

// Source is one upstream scraping site.
type Source struct {
	Tag     string // id prefix, e.g. "animesdrive"
	Name    string // display name for placeholder entries
	BaseURL string // scheme+host, no trailing slash
}

// ListingURL builds the catalog page URL: the home page, or the site's
// search endpoint when a term is given.
func (s Source) ListingURL(search string) string {
	if search != "" {
		return s.BaseURL + "/?s=" + url.QueryEscape(search)
	}
	return s.BaseURL + "/"
}

// ReconstructURL deterministically rebuilds a page URL from an id slug.
// Used when the id cache has no entry, e.g. after a process restart.
func (s Source) ReconstructURL(slug string) string {
	return s.BaseURL + "/" + slug
}

// Registered scraping sources. Both run WordPress-like themes, which is
// what the extraction selector groups target.
var (
	AnimesDrive = Source{Tag: "animesdrive", Name: "AnimesDrive", BaseURL: "https://animesdrive.blog"}
	Anroll      = Source{Tag: "anroll", Name: "Anroll", BaseURL: "https://www.anroll.net"}
)

// All lists every registered scraping source in catalog order.
var All = []Source{AnimesDrive, Anroll}

// ByTag looks up a registered source by its id prefix.
func ByTag(tag string) (Source, bool) {
	for _, s := range All {
		if s.Tag == tag {
			return s, true
		}
	}
	return Source{}, false
}
