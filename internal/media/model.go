package media

// Kind distinguishes films from series.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// ParseKind maps the API's media_type strings onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "movie", "film":
		return KindMovie, true
	case "tv", "series", "show":
		return KindTV, true
	}
	return "", false
}

type Credit struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// Image is one poster, backdrop or logo asset as listed by TMDB.
// Zero vote values mean the asset has no community rating.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Language    string  `json:"iso_639_1,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	VoteCount   int     `json:"vote_count,omitempty"`
}

// Record is the normalized view of a film or series.
type Record struct {
	ID           int    `json:"id"`
	Kind         Kind   `json:"kind"`
	Title        string `json:"title"`
	ReleaseDate  string `json:"release_date,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	LastAirDate  string `json:"last_air_date,omitempty"`
	Status       string `json:"status,omitempty"`

	Genres         []string `json:"genres,omitempty"`
	Runtime        int      `json:"runtime,omitempty"`
	EpisodeRunTime []int    `json:"episode_run_time,omitempty"`
	Seasons        int      `json:"number_of_seasons,omitempty"`
	Episodes       int      `json:"number_of_episodes,omitempty"`
	CreatedBy      []string `json:"created_by,omitempty"`

	Crew []Credit     `json:"crew,omitempty"`
	Cast []CastMember `json:"cast,omitempty"`

	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Posters      []Image `json:"posters,omitempty"`
	Backdrops    []Image `json:"backdrops,omitempty"`
	Logos        []Image `json:"logos,omitempty"`
}

// IsSeries reports whether the record should be laid out as a series.
func (r Record) IsSeries() bool {
	return r.Kind == KindTV || r.FirstAirDate != "" || r.Seasons > 0
}

// Season is the per-season fragment fetched when a single season is selected.
type Season struct {
	Number         int          `json:"season_number"`
	Name           string       `json:"name,omitempty"`
	AirDate        string       `json:"air_date,omitempty"`
	Episodes       int          `json:"episode_count,omitempty"`
	EpisodeRunTime []int        `json:"episode_run_time,omitempty"`
	Crew           []Credit     `json:"crew,omitempty"`
	Cast           []CastMember `json:"cast,omitempty"`
	PosterPath     string       `json:"poster_path,omitempty"`
}

// Review is the annotation a user (or a scraped review page) adds on top of a Record.
type Review struct {
	Rating      float64  `json:"rating,omitempty"`
	Liked       bool     `json:"liked,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	WatchedDate string   `json:"watched_date,omitempty"`
	Username    string   `json:"username,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Source records where an Aggregate came from; it picks the classic footer logo.
type Source string

const (
	SourceLetterboxd Source = "letterboxd"
	SourceCustom     Source = "custom"
)

// Aggregate is everything a render needs about one title. It is cached per
// session and never mutated by a render.
type Aggregate struct {
	Record Record  `json:"record"`
	Review Review  `json:"review"`
	Season *Season `json:"season,omitempty"`
	Title  string  `json:"title"`
	Year   string  `json:"year,omitempty"`
	Source Source  `json:"source"`
}

// DisplayTitle prefers the scraped/display title over the record title.
func (a *Aggregate) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Record.Title
}

// DisplayYear prefers the scraped year, then the release or first-air year.
func (a *Aggregate) DisplayYear() string {
	if a.Year != "" {
		return a.Year
	}
	if y := yearOf(a.Record.ReleaseDate); y != "" {
		return y
	}
	return yearOf(a.Record.FirstAirDate)
}

// Selection holds the chosen candidate indices. -1 means none; for Logo it
// means "pick automatically".
type Selection struct {
	Poster     int `json:"poster"`
	Background int `json:"background"`
	Logo       int `json:"logo"`
}

func DefaultSelection() Selection {
	return Selection{Poster: 0, Background: 0, Logo: -1}
}

type LogoOption struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Candidates are the asset lists a client can pick indices from.
type Candidates struct {
	Posters     []string     `json:"posters"`
	Backgrounds []string     `json:"backgrounds"`
	Logos       []LogoOption `json:"logos"`
}

// Summary is one search hit.
type Summary struct {
	ID         int     `json:"id"`
	Kind       Kind    `json:"media_type"`
	Title      string  `json:"title"`
	Year       string  `json:"year,omitempty"`
	Overview   string  `json:"overview,omitempty"`
	PosterPath string  `json:"poster_path,omitempty"`
	Popularity float64 `json:"popularity"`
}
