package biz

import (
	"math"
	"strconv"
	"strings"
)

// SortKey is a validated movie ordering. Only the constants below ever reach
// the data layer.
type SortKey string

const (
	SortTitleAsc       SortKey = "title"
	SortTitleDesc      SortKey = "-title"
	SortRatingAsc      SortKey = "average_rating"
	SortRatingDesc     SortKey = "-average_rating"
	SortYearAsc        SortKey = "year"
	SortYearDesc       SortKey = "-year"
	SortReleaseDateAsc SortKey = "release_date"
	SortNewest         SortKey = "-release_date"
)

// movieSorts maps accepted user input to sort keys.
var movieSorts = map[string]SortKey{
	"title":           SortTitleAsc,
	"-title":          SortTitleDesc,
	"average_rating":  SortRatingAsc,
	"-average_rating": SortRatingDesc,
	"rating":          SortRatingAsc,
	"-rating":         SortRatingDesc,
	"year":            SortYearAsc,
	"-year":           SortYearDesc,
	"release_date":    SortReleaseDateAsc,
	"-release_date":   SortNewest,
	"oldest":          SortReleaseDateAsc,
	"newest":          SortNewest,
}

// GenreSorts is the narrower allow-list offered on genre pages.
var GenreSorts = []SortKey{SortNewest, SortReleaseDateAsc, SortRatingDesc, SortTitleAsc}

// ParseSort resolves raw against the allow-list, falling back to def.
func ParseSort(raw string, def SortKey) SortKey {
	if key, ok := movieSorts[strings.TrimSpace(raw)]; ok {
		return key
	}
	return def
}

// ParseSortIn is ParseSort restricted to allowed.
func ParseSortIn(raw string, def SortKey, allowed []SortKey) SortKey {
	key := ParseSort(raw, def)
	for _, a := range allowed {
		if a == key {
			return key
		}
	}
	return def
}

// MovieFilter is the validated form of user supplied catalog filters. Nil
// fields are not applied.
type MovieFilter struct {
	Search      *string
	SearchScope SearchScope
	Genre       *string
	Year        *int
	MinRating   *float64
	Actor       *string
	Director    *string
	Sort        SortKey
}

// SearchScope selects the columns Search is matched against.
type SearchScope int

const (
	// SearchListing matches title, description, actors and director.
	SearchListing SearchScope = iota
	// SearchCatalog also matches genre names and the year.
	SearchCatalog
	// SearchHome matches title, director and actors only.
	SearchHome
)

// Filter keys accepted by ParseMovieFilter.
const (
	FilterSearch    = "search"
	FilterQuery     = "q"
	FilterGenre     = "genre"
	FilterYear      = "year"
	FilterMinRating = "min_rating"
	FilterActor     = "actor"
	FilterDirector  = "director"
	FilterSort      = "sort"
)

// ParseMovieFilter builds a MovieFilter from raw request values. Malformed
// values are dropped, never reported: a non numeric year or rating disables
// that filter and an unknown sort becomes defaultSort.
func ParseMovieFilter(raw map[string]string, defaultSort SortKey) *MovieFilter {
	f := &MovieFilter{Sort: ParseSort(raw[FilterSort], defaultSort)}

	search := raw[FilterSearch]
	if search == "" {
		search = raw[FilterQuery]
	}
	f.Search = nonEmpty(search)
	f.Genre = nonEmpty(raw[FilterGenre])
	f.Actor = nonEmpty(raw[FilterActor])
	f.Director = nonEmpty(raw[FilterDirector])
	f.Year = parseYear(raw[FilterYear])
	f.MinRating = parseRating(raw[FilterMinRating])
	return f
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseYear accepts only ASCII digit strings.
func parseYear(s string) *int {
	if s == "" {
		return nil
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil
		}
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &year
}

func parseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// Hex floats are Go syntax, not a rating anyone types.
	if strings.ContainsAny(s, "xX") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Ranking names a leaderboard.
type Ranking string

const (
	RankingTopRated Ranking = "rating"
	RankingPopular  Ranking = "popular"
)

// ParseRanking falls back to the top rated leaderboard.
func ParseRanking(raw string) Ranking {
	if Ranking(strings.TrimSpace(raw)) == RankingPopular {
		return RankingPopular
	}
	return RankingTopRated
}

// WatchlistSort is a validated watchlist ordering.
type WatchlistSort string

const (
	WatchlistByTitleAsc   WatchlistSort = "title"
	WatchlistByTitleDesc  WatchlistSort = "-title"
	WatchlistByDateAsc    WatchlistSort = "date"
	WatchlistByDateDesc   WatchlistSort = "-date"
	WatchlistByRatingAsc  WatchlistSort = "rating"
	WatchlistByRatingDesc WatchlistSort = "-rating"
	WatchlistByYearAsc    WatchlistSort = "year"
	WatchlistByYearDesc   WatchlistSort = "-year"
)

// ParseWatchlistSort falls back to newest additions first.
func ParseWatchlistSort(raw string) WatchlistSort {
	switch s := WatchlistSort(strings.TrimSpace(raw)); s {
	case WatchlistByTitleAsc, WatchlistByTitleDesc, WatchlistByDateAsc, WatchlistByDateDesc,
		WatchlistByRatingAsc, WatchlistByRatingDesc, WatchlistByYearAsc, WatchlistByYearDesc:
		return s
	}
	return WatchlistByDateDesc
}
