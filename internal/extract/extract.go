// Package extract locates catalog entries, episode links and playable
// stream URLs inside arbitrary HTML. Everything here is heuristic and pure:
// given the same document the same results come out, and unknown page
// layouts degrade to weaker fallback passes instead of failing.
package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/rafaeldmz/anistream/internal/ids"
	"github.com/rafaeldmz/anistream/internal/models"
)

// postSelector matches the likely catalog entry containers. One comma group
// so matches come back in document order regardless of which class hit; it
// covers WordPress-like themes, which is what the scraped sites run.
const postSelector = "article, .post, .entry, .post-item, .blog-post"

// EntryOptions parameterizes a catalog extraction pass.
type EntryOptions struct {
	Tag        string // source tag used as the id prefix
	SourceName string // human name, used only for the placeholder entry
	PageURL    string // URL the document was fetched from
	Limit      int
	Search     string // case-insensitive title filter, empty for none
	// Placeholder emits one synthetic entry when nothing at all was found
	// and no search term was given, so the caller can tell an empty page
	// from a failed crawl.
	Placeholder bool
}

// Entries finds catalog entries in a listing document. Containers are
// scanned in document order and deduplicated by element identity; if none
// of them yields an entry, a plain anchor scan recovers content from
// unknown layouts.
func Entries(doc *goquery.Document, opts EntryOptions) []models.MetaPreview {
	if opts.Limit < 1 {
		return nil
	}

	items := make([]models.MetaPreview, 0, opts.Limit)
	seen := make(map[string]bool)

	doc.Find(postSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(items) >= opts.Limit {
			return false
		}

		a := s.Find("h2 a, .entry-title a, a").First()
		href := strings.TrimSpace(a.AttrOr("href", ""))

		title := strings.TrimSpace(s.Find("h2, h1, .entry-title").First().Text())
		if title == "" {
			title = strings.TrimSpace(a.AttrOr("title", ""))
		}
		if title == "" {
			title = strings.TrimSpace(a.Text())
		}

		if href == "" || title == "" {
			return true
		}
		if !matchesSearch(title, opts.Search) {
			return true
		}

		img := s.Find("img").First()
		poster := strings.TrimSpace(img.AttrOr("src", ""))
		if poster == "" {
			poster = strings.TrimSpace(img.AttrOr("data-src", ""))
		}

		appendEntry(&items, seen, opts, href, title, poster)
		return true
	})

	// Fallback: the page uses none of the known container patterns. Scan
	// plain anchors; higher noise, but recovers unknown themes.
	if len(items) == 0 {
		doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if len(items) >= opts.Limit {
				return false
			}
			href := strings.TrimSpace(a.AttrOr("href", ""))
			text := strings.TrimSpace(a.Text())
			if href == "" || text == "" || !strings.Contains(href, "/") {
				return true
			}
			if !matchesSearch(text, opts.Search) {
				return true
			}
			appendEntry(&items, seen, opts, href, text, "")
			return true
		})
	}

	if len(items) == 0 && opts.Search == "" && opts.Placeholder {
		items = append(items, models.MetaPreview{
			ID:    opts.Tag + ":sample-item",
			Type:  models.ContentTypeSeries,
			Name:  "Sample Anime (" + opts.SourceName + ")",
			Extra: &models.PreviewExtra{URL: opts.PageURL},
		})
	}

	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items
}

func appendEntry(items *[]models.MetaPreview, seen map[string]bool, opts EntryOptions, href, title, poster string) {
	sourceURL := AbsoluteURL(opts.PageURL, href)
	id := ids.New(opts.Tag, sourceURL)
	if seen[id] {
		return
	}
	seen[id] = true
	*items = append(*items, models.MetaPreview{
		ID:     id,
		Type:   models.ContentTypeSeries,
		Name:   title,
		Poster: poster,
		Extra:  &models.PreviewExtra{URL: sourceURL},
	})
}

func matchesSearch(title, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(search))
}

// SubItem is an episode-like link found inside a detail page.
type SubItem struct {
	ID     string
	Title  string
	URL    string
	Number int
}

var (
	// Localized "episode"/"chapter" keyword plus a numeral.
	episodeKeywordRe = regexp.MustCompile(`(?i)(?:epis[óo]dio|episode|epis|cap[íi]tulo|cap|ep)\s*\.?\s*#?(\d{1,3})`)
	// Bare 1-3 digit number anywhere in the link text.
	bareNumberRe = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// SubItems finds episode links in a detail document. The episode number
// comes from the first captured numeral and defaults to 1 when none parses;
// duplicate numbers are possible and callers must tolerate them.
func SubItems(doc *goquery.Document, parentID, pageURL string) []SubItem {
	anchors := doc.Find(".entry-content a, .post-content a, article a, main a")
	if anchors.Length() == 0 {
		anchors = doc.Find("a")
	}

	var subs []SubItem
	seen := make(map[string]bool)

	anchors.Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		text := strings.TrimSpace(a.Text())
		if href == "" || text == "" {
			return
		}

		number, ok := episodeNumber(text)
		if !ok {
			return
		}

		id := ids.Sub(parentID, href)
		if seen[id] {
			return
		}
		seen[id] = true

		subs = append(subs, SubItem{
			ID:     id,
			Title:  text,
			URL:    AbsoluteURL(pageURL, href),
			Number: number,
		})
	})

	return subs
}

// episodeNumber reports whether text looks like an episode link and which
// episode it names.
func episodeNumber(text string) (int, bool) {
	m := episodeKeywordRe.FindStringSubmatch(text)
	if m == nil {
		m = bareNumberRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1, true
	}
	return n, true
}

var (
	iframeSrcRe = regexp.MustCompile(`(?i)<iframe[^>]*\bsrc=["']([^"']+)["']`)
	mediaURLRe  = regexp.MustCompile(`(?i)https?://[^\s'"<>]+?\.(?:m3u8|mp4|webm|mkv)(?:\?[^'"\s<>]*)?`)
	srcAttrRe   = regexp.MustCompile(`(?i)\bsrc=["']([^"']+)["']`)

	mediaTokenRe = regexp.MustCompile(`(?i)m3u8|mp4|webm|mkv`)
	hintTokenRe  = regexp.MustCompile(`(?i)player|cdn|stream`)

	scriptURLRe = regexp.MustCompile(`(?i)\.js(\?|$)`)
)

// noiseFragments mark static-asset and anti-bot script URLs that the broad
// src scan tends to pick up.
var noiseFragments = []string{"cloudflare-static", "rocket-loader"}

// StreamURLs extracts probable video URLs from raw HTML. Three pattern
// classes contribute in priority order: iframe embed sources first, then
// direct media-file URLs, then any src value that merely hints at media.
// The result is deduplicated preserving insertion order and stripped of
// script noise.
func StreamURLs(html string) []string {
	var found []string

	for _, m := range iframeSrcRe.FindAllStringSubmatch(html, -1) {
		found = append(found, m[1])
	}

	found = append(found, mediaURLRe.FindAllString(html, -1)...)

	for _, m := range srcAttrRe.FindAllStringSubmatch(html, -1) {
		s := m[1]
		if mediaTokenRe.MatchString(s) || hintTokenRe.MatchString(s) {
			found = append(found, s)
		}
	}

	found = lo.Uniq(found)
	return lo.Filter(found, func(u string, _ int) bool {
		return !isNoise(u)
	})
}

func isNoise(u string) bool {
	if scriptURLRe.MatchString(u) {
		return true
	}
	lower := strings.ToLower(u)
	for _, frag := range noiseFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// StreamSource is one candidate found on a page. Iframe marks candidates
// that came from an embed frame and must open externally.
type StreamSource struct {
	URL    string
	Iframe bool
}

// DocumentStreams collects stream candidates structurally from video,
// source and iframe elements, then merges in the regex pass over the raw
// HTML. Duplicates keep their first occurrence, so the DOM pass wins.
func DocumentStreams(doc *goquery.Document, html string) []StreamSource {
	var sources []StreamSource

	doc.Find("video").Each(func(_ int, v *goquery.Selection) {
		if src := strings.TrimSpace(v.AttrOr("src", "")); src != "" {
			sources = append(sources, StreamSource{URL: src})
		}
		v.Find("source").Each(func(_ int, s *goquery.Selection) {
			if src := strings.TrimSpace(s.AttrOr("src", "")); src != "" {
				sources = append(sources, StreamSource{URL: src})
			}
		})
	})

	doc.Find("iframe").Each(func(_ int, fr *goquery.Selection) {
		if src := strings.TrimSpace(fr.AttrOr("src", "")); src != "" {
			sources = append(sources, StreamSource{URL: src, Iframe: true})
		}
	})

	for _, u := range StreamURLs(html) {
		sources = append(sources, StreamSource{URL: u})
	}

	return lo.UniqBy(sources, func(s StreamSource) string {
		return s.URL
	})
}

// AbsoluteURL resolves ref against base. Unparseable inputs come back
// unchanged; extraction never fails on a malformed link.
func AbsoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// ResolveStreamURL rewrites the relative URL forms embed hosts emit:
// protocol-relative URLs get https, root-relative ones resolve against the
// page they were found on. Anything else passes through.
func ResolveStreamURL(pageURL, raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if strings.HasPrefix(raw, "/") {
		return AbsoluteURL(pageURL, raw)
	}
	return raw
}
