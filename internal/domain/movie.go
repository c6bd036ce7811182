package domain

type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseYear int     `json:"release_year"`
	Rating      float64 `json:"rating"`
}
