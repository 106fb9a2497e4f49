package scraper

import (
	"strings"

	"github.com/rafaeldmz/anistream/internal/extract"
	"github.com/rafaeldmz/anistream/internal/ids"
	"github.com/rafaeldmz/anistream/internal/models"
	"github.com/rafaeldmz/anistream/internal/util"
)

// Streams resolves an id to an ordered list of playable candidates. An
// episode id deep-links straight to the episode page and prefers its embed
// frame; an item id runs the full extraction pipeline against the detail
// page. There is always at least a page-open fallback when the page itself
// was reachable, and never an error.
func (s *Scraper) Streams(id string) []models.Stream {
	tag, slug := ids.Split(id)
	src, ok := s.lookup(tag)
	if !ok || slug == "" {
		util.Warn("streams requested for unknown id", "id", id)
		return []models.Stream{}
	}

	segments := ids.Segments(slug)
	if len(segments) >= 2 {
		// Episode form: the last segment is the episode slug; rebuild the
		// episode URL directly instead of revisiting the parent listing.
		return s.episodeStreams(src.ReconstructURL(segments[len(segments)-1]))
	}

	return s.StreamsFromURL(s.resolveURL(src, id, slug))
}

// episodeStreams fetches an episode page and returns its embed frame when
// one exists, else a candidate that opens the page itself.
func (s *Scraper) episodeStreams(epURL string) []models.Stream {
	page, err := s.fetcher.Fetch(epURL)
	if err != nil {
		util.Warn("episode fetch failed", "url", epURL, "err", err)
		return []models.Stream{{ExternalURL: epURL}}
	}

	if src, ok := page.Doc.Find("iframe").First().Attr("src"); ok {
		if src = strings.TrimSpace(src); src != "" {
			return []models.Stream{{
				Title:       "Embedded player",
				ExternalURL: extract.ResolveStreamURL(page.URL, src),
			}}
		}
	}

	return []models.Stream{{ExternalURL: epURL}}
}

// StreamsFromURL runs the full stream extraction pipeline against one
// page: structural video/iframe candidates merged with the regex classes,
// relative URLs rewritten against the page, one candidate per URL.
func (s *Scraper) StreamsFromURL(pageURL string) []models.Stream {
	if pageURL == "" {
		return []models.Stream{}
	}

	page, err := s.fetcher.Fetch(pageURL)
	if err != nil {
		util.Warn("stream fetch failed", "url", pageURL, "err", err)
		return []models.Stream{{ExternalURL: pageURL}}
	}

	candidates := extract.DocumentStreams(page.Doc, page.HTML)
	streams := make([]models.Stream, 0, len(candidates))
	for _, cand := range candidates {
		resolved := extract.ResolveStreamURL(page.URL, cand.URL)
		if cand.Iframe {
			streams = append(streams, models.Stream{Title: "Embedded player", ExternalURL: resolved})
			continue
		}
		streams = append(streams, models.Stream{URL: resolved})
	}

	if len(streams) == 0 {
		return []models.Stream{{ExternalURL: pageURL}}
	}
	return streams
}

// StreamsForTitle searches every scraping source for a title and collects
// streams from each match, one source at a time. Used for ids that belong
// to the metadata provider rather than a scraping source.
func (s *Scraper) StreamsForTitle(title string, perSourceLimit int) []models.Stream {
	if title == "" {
		return []models.Stream{}
	}

	var streams []models.Stream
	for _, src := range s.sources {
		for _, entry := range s.List(src, perSourceLimit, title) {
			streams = append(streams, s.StreamsFromURL(entry.SourceURL())...)
		}
	}
	return streams
}
