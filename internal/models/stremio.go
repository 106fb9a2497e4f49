// Package models contains the addon wire shapes and TMDB data structures
package models

// ContentType is the addon content type for everything we scrape.
const ContentTypeSeries = "series"

// Manifest defines the metadata for the addon.
type Manifest struct {
	ID          string     `json:"id"`
	Version     string     `json:"version"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Resources   []string   `json:"resources"`
	Types       []string   `json:"types"`
	Catalogs    []Catalog  `json:"catalogs"`
	IDPrefixes  []string   `json:"idPrefixes,omitempty"`
}

// CatalogExtra declares an optional catalog parameter such as search.
type CatalogExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired,omitempty"`
}

// Catalog defines a content catalog exposed by the manifest.
type Catalog struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Extra []CatalogExtra `json:"extra,omitempty"`
}

// PreviewExtra carries the source page URL an entry was scraped from.
type PreviewExtra struct {
	URL string `json:"url"`
}

// MetaPreview represents a summary of a content item for the catalog.
type MetaPreview struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	Poster      string        `json:"poster"`
	Overview    string        `json:"overview"`
	ReleaseInfo string        `json:"releaseInfo,omitempty"`
	Extra       *PreviewExtra `json:"extra,omitempty"`
}

// SourceURL returns the page URL the entry was scraped from, if recorded.
func (m *MetaPreview) SourceURL() string {
	if m.Extra == nil {
		return ""
	}
	return m.Extra.URL
}

// MetaVideo represents an episode of a series.
type MetaVideo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
}

// Meta represents detailed metadata for a content item.
type Meta struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Poster      string      `json:"poster"`
	Background  string      `json:"background,omitempty"`
	Genres      []string    `json:"genres,omitempty"`
	ReleaseInfo string      `json:"releaseInfo,omitempty"`
	ImdbRating  string      `json:"imdbRating,omitempty"`
	Runtime     string      `json:"runtime,omitempty"`
	Videos      []MetaVideo `json:"videos,omitempty"`
	Extra       *MetaExtra  `json:"extra,omitempty"`
}

// MetaExtra carries scraping provenance for a detail record.
type MetaExtra struct {
	URL            string   `json:"url,omitempty"`
	PossibleVideos []string `json:"possibleVideos,omitempty"`
}

// Stream is one playable candidate. Exactly one of URL or ExternalURL is set:
// URL for direct media, ExternalURL for embedded players and page fallbacks.
type Stream struct {
	URL         string `json:"url,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
	Title       string `json:"title,omitempty"`
}
