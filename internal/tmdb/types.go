package tmdb

import "github.com/youruser/posterboxd/internal/media"

type named struct {
	Name string `json:"name"`
}

type details struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	LastAirDate  string  `json:"last_air_date"`
	Status       string  `json:"status"`
	Genres       []named `json:"genres"`
	Runtime      int     `json:"runtime"`

	EpisodeRunTime   []int   `json:"episode_run_time"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	CreatedBy        []named `json:"created_by"`

	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

type credits struct {
	Cast []media.CastMember `json:"cast"`
	Crew []media.Credit     `json:"crew"`
}

type images struct {
	Posters   []media.Image `json:"posters"`
	Backdrops []media.Image `json:"backdrops"`
	Logos     []media.Image `json:"logos"`
}

type episode struct {
	Runtime int `json:"runtime"`
}

type season struct {
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	AirDate      string    `json:"air_date"`
	PosterPath   string    `json:"poster_path"`
	Episodes     []episode `json:"episodes"`
}

type searchResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

type searchPage struct {
	Results []searchResult `json:"results"`
}

func names(in []named) []string {
	var out []string
	for _, n := range in {
		if n.Name != "" {
			out = append(out, n.Name)
		}
	}
	return out
}

func (d details) record(kind media.Kind, cr credits, im images) *media.Record {
	r := &media.Record{
		ID:             d.ID,
		Kind:           kind,
		Title:          d.Title,
		ReleaseDate:    d.ReleaseDate,
		FirstAirDate:   d.FirstAirDate,
		LastAirDate:    d.LastAirDate,
		Status:         d.Status,
		Genres:         names(d.Genres),
		Runtime:        d.Runtime,
		EpisodeRunTime: d.EpisodeRunTime,
		Seasons:        d.NumberOfSeasons,
		Episodes:       d.NumberOfEpisodes,
		CreatedBy:      names(d.CreatedBy),
		Crew:           cr.Crew,
		Cast:           cr.Cast,
		PosterPath:     d.PosterPath,
		BackdropPath:   d.BackdropPath,
		Posters:        im.Posters,
		Backdrops:      im.Backdrops,
		Logos:          im.Logos,
	}
	if r.Title == "" {
		r.Title = d.Name
	}
	return r
}

func (s searchResult) summary(kind media.Kind) media.Summary {
	title, date := s.Title, s.ReleaseDate
	if kind == media.KindTV {
		title, date = s.Name, s.FirstAirDate
	}
	return media.Summary{
		ID:         s.ID,
		Kind:       kind,
		Title:      title,
		Year:       media.YearOf(date),
		Overview:   s.Overview,
		PosterPath: s.PosterPath,
		Popularity: s.Popularity,
	}
}
