// Package tmdb looks up titles, artwork and ratings from The Movie
// Database. The addon treats it as one more source with its own id prefix;
// stream requests for its ids are answered by searching the scraping
// sources for the looked-up title.
package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/rafaeldmz/anistream/internal/ids"
	"github.com/rafaeldmz/anistream/internal/models"
	"github.com/rafaeldmz/anistream/internal/util"
)

// Tag is the id prefix for entries originating from TMDB.
const Tag = "tmdb"

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	animeGenreID   = 16
	maxBodySize    = 4 * 1024 * 1024
)

// Client is a thin TMDB API client with response caching.
type Client struct {
	client  *http.Client
	cache   *util.ResponseCache
	baseURL string
	apiKey  string
}

// New creates a TMDB client using the shared fast HTTP client.
func New(apiKey string) *Client {
	return &Client{
		client:  util.GetFastClient(),
		cache:   util.GetTMDBCache(),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

// Popular returns the most popular animated TV shows as catalog entries.
func (c *Client) Popular(limit int) ([]models.MetaPreview, error) {
	endpoint := fmt.Sprintf("%s/discover/tv?api_key=%s&with_genres=%d&sort_by=popularity.desc&page=1",
		c.baseURL, url.QueryEscape(c.apiKey), animeGenreID)

	var result models.TMDBDiscoverResult
	if err := c.getJSON(endpoint, &result); err != nil {
		return nil, errors.Wrap(err, "tmdb discover")
	}

	shows := result.Results
	if limit > 0 && len(shows) > limit {
		shows = shows[:limit]
	}

	previews := make([]models.MetaPreview, 0, len(shows))
	for i := range shows {
		show := &shows[i]
		previews = append(previews, models.MetaPreview{
			ID:          Tag + ":" + strconv.Itoa(show.ID),
			Type:        models.ContentTypeSeries,
			Name:        show.Name,
			Poster:      show.GetPosterURL(""),
			Overview:    show.Overview,
			ReleaseInfo: show.GetReleaseYear(),
			Extra:       &models.PreviewExtra{URL: PageURL(strconv.Itoa(show.ID))},
		})
	}
	return previews, nil
}

// Details looks up full metadata for an addon id of the form "tmdb:<id>".
func (c *Client) Details(id string) (*models.Meta, error) {
	_, numeric := ids.Split(id)
	if numeric == "" {
		return nil, errors.Errorf("malformed tmdb id %q", id)
	}

	endpoint := fmt.Sprintf("%s/tv/%s?api_key=%s",
		c.baseURL, url.PathEscape(numeric), url.QueryEscape(c.apiKey))

	var show models.TMDBDetails
	if err := c.getJSON(endpoint, &show); err != nil {
		return nil, errors.Wrap(err, "tmdb details")
	}
	if show.ID == 0 {
		return nil, errors.Errorf("tmdb show %s not found", numeric)
	}

	poster := show.GetPosterURL("")
	background := show.GetBackdropURL("")
	if background == "" {
		background = poster
	}

	meta := &models.Meta{
		ID:          id,
		Type:        models.ContentTypeSeries,
		Name:        show.Name,
		Description: show.Overview,
		Poster:      poster,
		Background:  background,
		Genres:      show.GenreNames(),
	}
	meta.ReleaseInfo = show.GetReleaseYear()
	if show.VoteAverage > 0 {
		meta.ImdbRating = strconv.FormatFloat(show.VoteAverage, 'f', 1, 64)
	}
	if len(show.EpisodeRunTime) > 0 {
		meta.Runtime = strconv.Itoa(show.EpisodeRunTime[0])
	}
	return meta, nil
}

// PageURL returns the public TMDB page for a show, used as the last-resort
// external stream candidate.
func PageURL(numericID string) string {
	return "https://www.themoviedb.org/tv/" + numericID
}

func (c *Client) getJSON(endpoint string, v interface{}) error {
	if data, ok := c.cache.Get(endpoint); ok {
		return json.Unmarshal(data, v)
	}

	resp, err := c.client.Get(endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return err
	}

	c.cache.Set(endpoint, data)
	return json.Unmarshal(data, v)
}
