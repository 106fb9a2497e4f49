package models

// TMDBDetails contains TV show information from TMDB
type TMDBDetails struct {
	ID              int         `json:"id"`
	Name            string      `json:"name"`
	OriginalName    string      `json:"original_name"`
	Overview        string      `json:"overview"`
	PosterPath      string      `json:"poster_path"`
	BackdropPath    string      `json:"backdrop_path"`
	FirstAirDate    string      `json:"first_air_date"`
	VoteAverage     float64     `json:"vote_average"`
	VoteCount       int         `json:"vote_count"`
	Popularity      float64     `json:"popularity"`
	EpisodeRunTime  []int       `json:"episode_run_time"`
	Status          string      `json:"status"`
	Genres          []TMDBGenre `json:"genres"`
	NumberOfSeasons int         `json:"number_of_seasons"`
}

// TMDBGenre represents a genre from TMDB
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreNames returns the genre names in API order.
func (d *TMDBDetails) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// TMDBDiscoverResult represents a discover/search response from TMDB
type TMDBDiscoverResult struct {
	Page         int         `json:"page"`
	TotalResults int         `json:"total_results"`
	TotalPages   int         `json:"total_pages"`
	Results      []TMDBMedia `json:"results"`
}

// TMDBMedia represents a TV show in discover results
type TMDBMedia struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// GetReleaseYear returns the first-air year
func (m *TMDBMedia) GetReleaseYear() string {
	return tmdbReleaseYear(m.FirstAirDate)
}

// GetPosterURL returns the full poster URL
func (m *TMDBMedia) GetPosterURL(size string) string {
	return tmdbImageURL(m.PosterPath, size, "w500")
}

// GetReleaseYear returns the first-air year
func (d *TMDBDetails) GetReleaseYear() string {
	return tmdbReleaseYear(d.FirstAirDate)
}

// GetPosterURL returns the full poster URL
func (d *TMDBDetails) GetPosterURL(size string) string {
	return tmdbImageURL(d.PosterPath, size, "w500")
}

// GetBackdropURL returns the full backdrop URL
func (d *TMDBDetails) GetBackdropURL(size string) string {
	return tmdbImageURL(d.BackdropPath, size, "w1280")
}

func tmdbReleaseYear(firstAirDate string) string {
	if len(firstAirDate) >= 4 {
		return firstAirDate[:4]
	}
	return ""
}

func tmdbImageURL(path, size, fallbackSize string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = fallbackSize
	}
	return "https://image.tmdb.org/t/p/" + size + path
}
