package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

const listingHTML = `<html><body>
<article>
  <h2><a href="https://animesdrive.blog/naruto-shippuden/">Naruto Shippuden</a></h2>
  <img src="https://animesdrive.blog/naruto.jpg">
</article>
<article>
  <h2><a href="https://animesdrive.blog/one-piece/">One Piece</a></h2>
  <img data-src="https://animesdrive.blog/one-piece.jpg">
</article>
<div class="post">
  <a href="https://animesdrive.blog/bleach/" title="Bleach"></a>
</div>
</body></html>`

func listingOptions() EntryOptions {
	return EntryOptions{
		Tag:         "animesdrive",
		SourceName:  "AnimesDrive",
		PageURL:     "https://animesdrive.blog/",
		Limit:       30,
		Placeholder: true,
	}
}

func TestEntries(t *testing.T) {
	entries := Entries(doc(t, listingHTML), listingOptions())
	require.Len(t, entries, 3)

	assert.Equal(t, "animesdrive:animesdrive-blog-naruto-shippuden", entries[0].ID)
	assert.Equal(t, "Naruto Shippuden", entries[0].Name)
	assert.Equal(t, "series", entries[0].Type)
	assert.Equal(t, "https://animesdrive.blog/naruto.jpg", entries[0].Poster)
	assert.Equal(t, "https://animesdrive.blog/naruto-shippuden/", entries[0].SourceURL())

	// data-src poster fallback
	assert.Equal(t, "https://animesdrive.blog/one-piece.jpg", entries[1].Poster)

	// heading missing, title attribute used instead
	assert.Equal(t, "Bleach", entries[2].Name)
}

func TestEntriesIDsAreStable(t *testing.T) {
	first := Entries(doc(t, listingHTML), listingOptions())
	second := Entries(doc(t, listingHTML), listingOptions())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestEntriesPreservesDocumentOrder(t *testing.T) {
	// The .post container precedes the article and must come out first.
	html := `<html><body>
<div class="post"><h2><a href="https://animesdrive.blog/first/">First Post</a></h2></div>
<article><h2><a href="https://animesdrive.blog/second/">Second Article</a></h2></article>
</body></html>`

	entries := Entries(doc(t, html), listingOptions())
	require.Len(t, entries, 2)
	assert.Equal(t, "First Post", entries[0].Name)
	assert.Equal(t, "Second Article", entries[1].Name)

	opts := listingOptions()
	opts.Limit = 1
	limited := Entries(doc(t, html), opts)
	require.Len(t, limited, 1)
	assert.Equal(t, "First Post", limited[0].Name)
}

func TestEntriesRespectsLimit(t *testing.T) {
	opts := listingOptions()
	opts.Limit = 1

	entries := Entries(doc(t, listingHTML), opts)
	require.Len(t, entries, 1)
	assert.Equal(t, "Naruto Shippuden", entries[0].Name)
}

func TestEntriesSearchFiltersByTitle(t *testing.T) {
	opts := listingOptions()
	opts.Search = "piece"

	entries := Entries(doc(t, listingHTML), opts)
	require.Len(t, entries, 1)
	assert.Equal(t, "One Piece", entries[0].Name)
}

func TestEntriesSearchIsCaseInsensitive(t *testing.T) {
	opts := listingOptions()
	opts.Search = "NARUTO"

	entries := Entries(doc(t, listingHTML), opts)
	require.Len(t, entries, 1)
	assert.Equal(t, "Naruto Shippuden", entries[0].Name)
}

func TestEntriesAnchorFallback(t *testing.T) {
	html := `<html><body>
<ul>
  <li><a href="/animes/dragon-ball/">Dragon Ball</a></li>
  <li><a href="no-separator">Skip me</a></li>
  <li><a href="/animes/hunter-x-hunter/"></a></li>
</ul>
</body></html>`

	entries := Entries(doc(t, html), listingOptions())
	require.Len(t, entries, 1)
	assert.Equal(t, "Dragon Ball", entries[0].Name)
	assert.Equal(t, "https://animesdrive.blog/animes/dragon-ball/", entries[0].SourceURL())
}

func TestEntriesPlaceholderOnEmptyPage(t *testing.T) {
	entries := Entries(doc(t, "<html><body></body></html>"), listingOptions())
	require.Len(t, entries, 1, "an empty crawl must stay distinguishable from a failed one")

	assert.Equal(t, "animesdrive:sample-item", entries[0].ID)
	assert.Equal(t, "Sample Anime (AnimesDrive)", entries[0].Name)
	assert.Equal(t, "https://animesdrive.blog/", entries[0].SourceURL())
}

func TestEntriesNoPlaceholderWhenSearching(t *testing.T) {
	opts := listingOptions()
	opts.Search = "anything"
	assert.Empty(t, Entries(doc(t, "<html><body></body></html>"), opts))
}

func TestEntriesNoPlaceholderWhenDisabled(t *testing.T) {
	opts := listingOptions()
	opts.Placeholder = false
	assert.Empty(t, Entries(doc(t, "<html><body></body></html>"), opts))
}

func TestEntriesDeduplicatesByID(t *testing.T) {
	html := `<html><body>
<article class="post">
  <h2><a href="https://animesdrive.blog/naruto/">Naruto</a></h2>
</article>
</body></html>`

	// The element matches two selector alternatives but must yield one entry.
	entries := Entries(doc(t, html), listingOptions())
	require.Len(t, entries, 1)
}

func TestSubItems(t *testing.T) {
	html := `<html><body><article>
<a href="/naruto-episodio-1/">Episódio 1</a>
<a href="/naruto-episodio-2/">Episódio 2</a>
<a href="/naruto-cap-12/">Capítulo 12</a>
<a href="/naruto-special/">Special 7</a>
<a href="/about/">About this site</a>
</article></body></html>`

	subs := SubItems(doc(t, html), "animesdrive:animesdrive-blog-naruto", "https://animesdrive.blog/naruto/")
	require.Len(t, subs, 4)

	assert.Equal(t, "animesdrive:animesdrive-blog-naruto:naruto-episodio-1", subs[0].ID)
	assert.Equal(t, "Episódio 1", subs[0].Title)
	assert.Equal(t, 1, subs[0].Number)
	assert.Equal(t, "https://animesdrive.blog/naruto-episodio-1/", subs[0].URL)

	assert.Equal(t, 2, subs[1].Number)
	assert.Equal(t, 12, subs[2].Number)

	// Bare number anywhere in the text qualifies.
	assert.Equal(t, 7, subs[3].Number)
}

func TestSubItemsZeroEpisodeDefaultsToOne(t *testing.T) {
	html := `<html><body><article><a href="/pilot/">Episode 0</a></article></body></html>`
	subs := SubItems(doc(t, html), "animesdrive:x", "https://animesdrive.blog/x/")
	require.Len(t, subs, 1)
	assert.Equal(t, 1, subs[0].Number)
}

func TestSubItemsScopeFallsBackToAllAnchors(t *testing.T) {
	html := `<html><body><div><a href="/ep-3/">Episode 3</a></div></body></html>`
	subs := SubItems(doc(t, html), "animesdrive:x", "https://animesdrive.blog/x/")
	require.Len(t, subs, 1)
	assert.Equal(t, 3, subs[0].Number)
}

func TestStreamURLsPriorityAndFiltering(t *testing.T) {
	html := `<html><body>
<iframe src="https://player.example/x"></iframe>
<p>mirror: https://cdn.example/a.m3u8?token=1</p>
<script src="https://static.example/app.js"></script>
<script src="https://example.com/cdn-cgi/cloudflare-static/rocket-loader.min.js"></script>
</body></html>`

	urls := StreamURLs(html)
	require.Len(t, urls, 2)

	// Frame URLs come before direct media URLs; script noise is gone.
	assert.Equal(t, "https://player.example/x", urls[0])
	assert.Equal(t, "https://cdn.example/a.m3u8?token=1", urls[1])
}

func TestStreamURLsGenericSrcHints(t *testing.T) {
	html := `<html><body>
<div src="https://fastcdn.example/watch?id=3"></div>
<img src="https://images.example/poster.jpg">
<embed src="https://host.example/player/embed/77">
</body></html>`

	urls := StreamURLs(html)
	assert.Contains(t, urls, "https://fastcdn.example/watch?id=3")
	assert.Contains(t, urls, "https://host.example/player/embed/77")
	assert.NotContains(t, urls, "https://images.example/poster.jpg")
}

func TestStreamURLsDeduplicates(t *testing.T) {
	html := `<iframe src="https://player.example/x"></iframe>
<iframe src="https://player.example/x"></iframe>
<a>https://cdn.example/v.mp4 and again https://cdn.example/v.mp4</a>`

	urls := StreamURLs(html)
	assert.Equal(t, []string{"https://player.example/x", "https://cdn.example/v.mp4"}, urls)
}

func TestDocumentStreams(t *testing.T) {
	html := `<html><body>
<video src="/video/direct.mp4"><source src="https://cdn.example/alt.webm"></video>
<iframe src="https://player.example/embed/9"></iframe>
</body></html>`

	sources := DocumentStreams(doc(t, html), html)
	require.Len(t, sources, 3)

	assert.Equal(t, StreamSource{URL: "/video/direct.mp4"}, sources[0])
	assert.Equal(t, StreamSource{URL: "https://cdn.example/alt.webm"}, sources[1])
	assert.Equal(t, StreamSource{URL: "https://player.example/embed/9", Iframe: true}, sources[2])
}

func TestDocumentStreamsDOMPassWinsOnDuplicates(t *testing.T) {
	html := `<html><body><iframe src="https://player.example/x"></iframe></body></html>`

	sources := DocumentStreams(doc(t, html), html)
	require.Len(t, sources, 1)
	assert.True(t, sources[0].Iframe, "the structural pass classified this URL first")
}

func TestResolveStreamURL(t *testing.T) {
	page := "https://animesdrive.blog/naruto-episodio-1/"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"protocol-relative gets https", "//cdn.example/x.mp4", "https://cdn.example/x.mp4"},
		{"root-relative resolves against page", "/video/x.mp4", "https://animesdrive.blog/video/x.mp4"},
		{"absolute unchanged", "https://cdn.example/y.m3u8", "https://cdn.example/y.m3u8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStreamURL(page, tt.raw))
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://a.example/b/c", AbsoluteURL("https://a.example/b/", "c"))
	assert.Equal(t, "https://a.example/c", AbsoluteURL("https://a.example/?s=x", "/c"))
	assert.Equal(t, "https://other.example/", AbsoluteURL("https://a.example/", "https://other.example/"))
	assert.Equal(t, "", AbsoluteURL("https://a.example/", ""))
}
