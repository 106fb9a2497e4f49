package scraper

import (
	"github.com/rafaeldmz/anistream/internal/extract"
	"github.com/rafaeldmz/anistream/internal/fetch"
	"github.com/rafaeldmz/anistream/internal/idcache"
	"github.com/rafaeldmz/anistream/internal/ids"
	"github.com/rafaeldmz/anistream/internal/models"
	"github.com/rafaeldmz/anistream/internal/util"
)

// Scraper ties the fetcher, the extractor and the id cache together.
type Scraper struct {
	fetcher     *fetch.Fetcher
	cache       idcache.Store
	sources     []Source
	placeholder bool
}

// New creates a Scraper over the registered sources. placeholder controls
// whether an empty crawl emits a synthetic sample entry instead of nothing.
func New(f *fetch.Fetcher, store idcache.Store, placeholder bool) *Scraper {
	return &Scraper{fetcher: f, cache: store, sources: All, placeholder: placeholder}
}

// lookup finds one of the scraper's sources by tag.
func (s *Scraper) lookup(tag string) (Source, bool) {
	for _, src := range s.sources {
		if src.Tag == tag {
			return src, true
		}
	}
	return Source{}, false
}

// List assembles the catalog for one source: fetch the listing page,
// extract entries, remember every entry's source URL for later detail and
// stream lookups. A failed fetch yields an empty list, never an error.
func (s *Scraper) List(src Source, limit int, search string) []models.MetaPreview {
	listingURL := src.ListingURL(search)

	page, err := s.fetcher.Fetch(listingURL)
	if err != nil {
		util.Warn("catalog fetch failed", "source", src.Tag, "err", err)
		return []models.MetaPreview{}
	}

	entries := extract.Entries(page.Doc, extract.EntryOptions{
		Tag:         src.Tag,
		SourceName:  src.Name,
		PageURL:     page.URL,
		Limit:       limit,
		Search:      search,
		Placeholder: s.placeholder,
	})

	for i := range entries {
		if u := entries[i].SourceURL(); u != "" {
			s.cache.Put(entries[i].ID, u)
		}
	}

	util.Debug("catalog assembled", "source", src.Tag, "search", search, "entries", len(entries))
	return entries
}

// resolveURL returns the page URL for an id, preferring the cache and
// falling back to deterministic reconstruction from the item slug.
func (s *Scraper) resolveURL(src Source, id, slug string) string {
	if u, ok := s.cache.Get(id); ok {
		return u
	}
	segments := ids.Segments(slug)
	if len(segments) == 0 {
		return ""
	}
	u := src.ReconstructURL(segments[0])
	util.Debug("id cache miss, reconstructed URL", "id", id, "url", u)
	return u
}
