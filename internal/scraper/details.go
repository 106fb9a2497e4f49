package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rafaeldmz/anistream/internal/extract"
	"github.com/rafaeldmz/anistream/internal/ids"
	"github.com/rafaeldmz/anistream/internal/models"
	"github.com/rafaeldmz/anistream/internal/util"
)

// Details resolves an id to its detail page and extracts normalized
// metadata plus the episode list. Returns nil when the id is unknown or
// the page cannot be fetched.
func (s *Scraper) Details(id string) *models.Meta {
	tag, slug := ids.Split(id)
	src, ok := s.lookup(tag)
	if !ok || slug == "" {
		util.Warn("details requested for unknown id", "id", id)
		return nil
	}

	pageURL := s.resolveURL(src, id, slug)
	if pageURL == "" {
		return nil
	}

	page, err := s.fetcher.Fetch(pageURL)
	if err != nil {
		util.Warn("details fetch failed", "id", id, "url", pageURL, "err", err)
		return nil
	}

	title := metaContent(page.Doc, `meta[property="og:title"]`)
	if title == "" {
		title = strings.TrimSpace(page.Doc.Find("title").First().Text())
	}
	if title == "" {
		title = slug
	}

	description := metaContent(page.Doc, `meta[property="og:description"]`)
	if description == "" {
		description = metaContent(page.Doc, `meta[name="description"]`)
	}
	if description == "" {
		description = strings.TrimSpace(page.Doc.Find(".entry-content p").First().Text())
	}
	if description == "" {
		description = strings.TrimSpace(page.Doc.Find("p").First().Text())
	}

	poster := metaContent(page.Doc, `meta[property="og:image"]`)
	if poster == "" {
		poster = strings.TrimSpace(page.Doc.Find("img").First().AttrOr("src", ""))
	}

	subs := extract.SubItems(page.Doc, id, page.URL)
	videos := make([]models.MetaVideo, 0, len(subs))
	for _, sub := range subs {
		videos = append(videos, models.MetaVideo{
			ID:      sub.ID,
			Title:   sub.Title,
			Season:  1,
			Episode: sub.Number,
		})
	}

	return &models.Meta{
		ID:          id,
		Type:        models.ContentTypeSeries,
		Name:        title,
		Description: description,
		Poster:      poster,
		// No distinct backdrop on these themes; reuse the poster.
		Background: poster,
		Videos:     videos,
		Extra: &models.MetaExtra{
			URL:            page.URL,
			PossibleVideos: extract.StreamURLs(page.HTML),
		},
	}
}

// metaContent returns the trimmed content attribute of the first element
// matching selector.
func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
