package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"filmrate/internal/models"
)

const topGenreCount = 8

// ComputeStats folds a user's ratings into the stats payload in one pass.
// Computed fresh on every call, never cached.
func ComputeStats(rows []models.StatsRow) *models.Stats {
	stats := &models.Stats{
		Distribution: make(map[string]int64, 10),
		Genres:       []models.GenreCount{},
		ByType:       map[string]int64{"movie": 0, "tv": 0},
		ByYear:       []models.YearCount{},
	}
	for i := 1; i <= 10; i++ {
		stats.Distribution[strconv.Itoa(i)] = 0
	}
	if len(rows) == 0 {
		return stats
	}

	var sum int64
	stats.Min = rows[0].UserRating
	genres := make(map[string]int64)
	byYear := make(map[int64]int64)

	for _, row := range rows {
		score := row.UserRating
		sum += score
		if score > stats.Max {
			stats.Max = score
		}
		if score < stats.Min {
			stats.Min = score
		}
		if score >= 1 && score <= 10 {
			stats.Distribution[strconv.FormatInt(score, 10)]++
		}

		mediaType := row.MediaType
		if mediaType == "" {
			mediaType = "movie"
		}
		if _, ok := stats.ByType[mediaType]; ok {
			stats.ByType[mediaType]++
		}

		if row.Genres != nil {
			for _, g := range strings.Split(*row.Genres, ",") {
				if g = strings.TrimSpace(g); g != "" {
					genres[g]++
				}
			}
		}
		if row.Year != nil && *row.Year != 0 {
			byYear[*row.Year]++
		}
	}

	stats.Total = int64(len(rows))
	stats.Average = math.Round(float64(sum)/float64(len(rows))*100) / 100
	stats.Genres = topGenres(genres)
	stats.ByYear = recentYears(byYear)
	return stats
}

func topGenres(counts map[string]int64) []models.GenreCount {
	out := make([]models.GenreCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, models.GenreCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topGenreCount {
		out = out[:topGenreCount]
	}
	return out
}

// recentYears keeps the 10 most recent distinct years with ratings,
// newest first.
func recentYears(counts map[int64]int64) []models.YearCount {
	out := make([]models.YearCount, 0, len(counts))
	for year, count := range counts {
		out = append(out, models.YearCount{Year: year, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}
