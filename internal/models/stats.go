package models

// GenreCount is one genre bucket in the stats response.
type GenreCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// YearCount is one release-year bucket in the stats response.
type YearCount struct {
	Year  int64 `json:"year"`
	Count int64 `json:"count"`
}

// Stats aggregates a user's ratings. Always fully populated: with zero
// ratings the histogram and by_type maps carry zero counts rather than
// being omitted.
type Stats struct {
	Total        int64            `json:"total"`
	Average      float64          `json:"average"`
	Max          int64            `json:"max"`
	Min          int64            `json:"min"`
	Distribution map[string]int64 `json:"distribution"`
	Genres       []GenreCount     `json:"genres"`
	ByType       map[string]int64 `json:"by_type"`
	ByYear       []YearCount      `json:"by_year"`
}
