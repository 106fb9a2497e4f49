// Package addon exposes the catalog, meta and stream operations over the
// Stremio addon HTTP protocol. Every handler is total: internal failures
// become empty metas, a null meta or an empty stream list, never an error
// status caused by scraping.
package addon

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rafaeldmz/anistream/internal/ids"
	"github.com/rafaeldmz/anistream/internal/models"
	"github.com/rafaeldmz/anistream/internal/scraper"
	"github.com/rafaeldmz/anistream/internal/tmdb"
	"github.com/rafaeldmz/anistream/internal/util"
)

// Version is the addon manifest version.
const Version = "1.1.0"

// crossSourceLimit bounds how many search matches per source are chased
// when resolving streams for a metadata-provider id.
const crossSourceLimit = 100

// Addon routes addon protocol requests to the scraper and the metadata
// provider.
type Addon struct {
	scraper      *scraper.Scraper
	tmdb         *tmdb.Client
	catalogLimit int
	manifest     models.Manifest
}

// New creates the addon with its manifest built from the registered
// sources.
func New(scr *scraper.Scraper, tm *tmdb.Client, catalogLimit int) *Addon {
	return &Addon{
		scraper:      scr,
		tmdb:         tm,
		catalogLimit: catalogLimit,
		manifest:     buildManifest(),
	}
}

func buildManifest() models.Manifest {
	searchExtra := []models.CatalogExtra{{Name: "search"}}
	catalogs := make([]models.Catalog, 0, len(scraper.All)+1)
	prefixes := make([]string, 0, len(scraper.All)+1)

	for _, src := range scraper.All {
		catalogs = append(catalogs, models.Catalog{
			Type:  models.ContentTypeSeries,
			ID:    src.Tag + ":catalog:latest",
			Name:  src.Name + " Latest",
			Extra: searchExtra,
		})
		prefixes = append(prefixes, src.Tag)
	}

	catalogs = append(catalogs, models.Catalog{
		Type: models.ContentTypeSeries,
		ID:   tmdb.Tag + ":catalog:popular",
		Name: "Popular Anime (TMDB)",
	})
	prefixes = append(prefixes, tmdb.Tag)

	return models.Manifest{
		ID:          "org.anistream.addon",
		Version:     Version,
		Name:        "AniStream",
		Description: "Anime catalogs scraped from AnimesDrive and Anroll with TMDB metadata",
		Resources:   []string{"catalog", "meta", "stream"},
		Types:       []string{models.ContentTypeSeries},
		Catalogs:    catalogs,
		IDPrefixes:  prefixes,
	}
}

// Handler returns the addon HTTP handler.
func (a *Addon) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", a.handleManifest)
	mux.HandleFunc("/catalog/", a.handleCatalog)
	mux.HandleFunc("/meta/", a.handleMeta)
	mux.HandleFunc("/stream/", a.handleStream)
	mux.HandleFunc("/", a.handleRoot)
	return withRecover(mux)
}

func (a *Addon) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/manifest.json", http.StatusFound)
}

func (a *Addon) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.manifest)
}

func (a *Addon) handleCatalog(w http.ResponseWriter, r *http.Request) {
	_, id, extra, ok := parseResource(r.URL.Path, "/catalog/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	search := searchTerm(extra, r.URL.Query())
	metas := a.catalog(id, search)
	if metas == nil {
		metas = []models.MetaPreview{}
	}
	util.Debug("catalog served", "catalog", id, "search", search, "metas", len(metas))
	writeJSON(w, map[string]interface{}{"metas": metas})
}

func (a *Addon) catalog(catalogID, search string) []models.MetaPreview {
	tag, _ := ids.Split(catalogID)

	if tag == tmdb.Tag {
		metas, err := a.tmdb.Popular(a.catalogLimit)
		if err != nil {
			util.Warn("tmdb catalog failed", "err", err)
			return nil
		}
		return metas
	}

	src, ok := scraper.ByTag(tag)
	if !ok {
		util.Warn("catalog requested for unknown source", "catalog", catalogID)
		return nil
	}
	return a.scraper.List(src, a.catalogLimit, search)
}

func (a *Addon) handleMeta(w http.ResponseWriter, r *http.Request) {
	_, id, _, ok := parseResource(r.URL.Path, "/meta/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var meta *models.Meta
	if tag, _ := ids.Split(id); tag == tmdb.Tag {
		m, err := a.tmdb.Details(id)
		if err != nil {
			util.Warn("tmdb meta failed", "id", id, "err", err)
		} else {
			meta = m
		}
	} else {
		meta = a.scraper.Details(id)
	}

	writeJSON(w, map[string]interface{}{"meta": meta})
}

func (a *Addon) handleStream(w http.ResponseWriter, r *http.Request) {
	_, id, _, ok := parseResource(r.URL.Path, "/stream/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	streams := a.streams(id)
	if streams == nil {
		streams = []models.Stream{}
	}
	util.Debug("streams served", "id", id, "streams", len(streams))
	writeJSON(w, map[string]interface{}{"streams": streams})
}

func (a *Addon) streams(id string) []models.Stream {
	tag, slug := ids.Split(id)

	if tag == tmdb.Tag {
		meta, err := a.tmdb.Details(id)
		if err != nil {
			util.Warn("tmdb stream lookup failed", "id", id, "err", err)
			return nil
		}
		streams := a.scraper.StreamsForTitle(meta.Name, crossSourceLimit)
		if len(streams) == 0 {
			return []models.Stream{{ExternalURL: tmdb.PageURL(slug)}}
		}
		return streams
	}

	return a.scraper.Streams(id)
}

// parseResource splits "/<resource>/<type>/<id>[/<extra>].json" paths.
func parseResource(path, prefix string) (contentType, id, extra string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || !strings.HasSuffix(rest, ".json") {
		return "", "", "", false
	}
	rest = strings.TrimSuffix(rest, ".json")

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", false
	}
	if len(parts) == 3 {
		extra = parts[2]
	}
	return parts[0], parts[1], extra, true
}

// searchTerm extracts the search term from the extra path segment
// ("search=naruto") or from the query string.
func searchTerm(extra string, query url.Values) string {
	if extra != "" {
		if values, err := url.ParseQuery(extra); err == nil {
			if s := values.Get("search"); s != "" {
				return s
			}
		}
	}
	return query.Get("search")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		util.Error("response encode failed", "err", err)
	}
}

// withRecover keeps a handler panic from killing the connection without a
// response.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				util.Error("handler panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
