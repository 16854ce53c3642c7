package data

import (
	"strings"

	"moviehub/internal/biz"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscape is the LIKE escape character. Backslash is avoided because
// MySQL string literals treat it as an escape of their own.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-insensitive LIKE pattern matching s as a
// literal substring.
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(s)) + "%"
}

// iContains renders "LOWER(column) LIKE ? ESCAPE '!'".
func iContains(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}

// yearAsText casts the year column to a string in the current dialect.
func yearAsText(db *gorm.DB) string {
	if db.Dialector.Name() == "mysql" {
		return "CAST(movies.year AS CHAR)"
	}
	return "CAST(movies.year AS TEXT)"
}

// genreMovieIDs selects ids of movies linked to a genre whose lowercased
// name satisfies cond. Using a subquery keeps one row per movie.
func genreMovieIDs(db *gorm.DB, cond string, arg interface{}) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Table(movieGenresTable).
		Select(movieGenresTable+".movie_id").
		Joins("JOIN genres ON genres.id = "+movieGenresTable+".genre_id").
		Where(cond, arg)
}

// applyMovieFilter narrows db (a query on movies) by f. A nil filter is a no-op.
func applyMovieFilter(db *gorm.DB, f *biz.MovieFilter) *gorm.DB {
	if f == nil {
		return db
	}

	if f.Search != nil {
		pattern := containsPattern(*f.Search)
		or := db.Session(&gorm.Session{NewDB: true}).
			Where(iContains("movies.title"), pattern).
			Or(iContains("movies.actors"), pattern).
			Or(iContains("movies.director"), pattern)
		if f.SearchScope != biz.SearchHome {
			or = or.Or(iContains("movies.description"), pattern)
		}
		if f.SearchScope == biz.SearchCatalog {
			or = or.
				Or("movies.id IN (?)", genreMovieIDs(db, iContains("genres.name"), pattern)).
				Or(iContains(yearAsText(db)), pattern)
		}
		db = db.Where(or)
	}

	if f.Genre != nil {
		db = db.Where("movies.id IN (?)", genreMovieIDs(db, "LOWER(genres.name) = ?", strings.ToLower(*f.Genre)))
	}

	if f.Year != nil {
		db = db.Where("movies.year = ?", *f.Year)
	}

	if f.MinRating != nil {
		db = db.Where("movies.average_rating >= ?", *f.MinRating)
	}

	if f.Actor != nil {
		db = db.Where(iContains("movies.actors"), containsPattern(*f.Actor))
	}

	if f.Director != nil {
		db = db.Where(iContains("movies.director"), containsPattern(*f.Director))
	}

	return db
}

// sortColumns maps each allow-listed key to its ORDER BY column. Nothing
// outside this table is ever passed to Order.
var sortColumns = map[biz.SortKey]clause.OrderByColumn{
	biz.SortTitleAsc:       {Column: clause.Column{Table: "movies", Name: "title"}},
	biz.SortTitleDesc:      {Column: clause.Column{Table: "movies", Name: "title"}, Desc: true},
	biz.SortRatingAsc:      {Column: clause.Column{Table: "movies", Name: "average_rating"}},
	biz.SortRatingDesc:     {Column: clause.Column{Table: "movies", Name: "average_rating"}, Desc: true},
	biz.SortYearAsc:        {Column: clause.Column{Table: "movies", Name: "year"}},
	biz.SortYearDesc:       {Column: clause.Column{Table: "movies", Name: "year"}, Desc: true},
	biz.SortReleaseDateAsc: {Column: clause.Column{Table: "movies", Name: "release_date"}},
	biz.SortNewest:         {Column: clause.Column{Table: "movies", Name: "release_date"}, Desc: true},
}

// applyMovieSort orders by key, then by id so equal keys keep a stable order.
func applyMovieSort(db *gorm.DB, key biz.SortKey) *gorm.DB {
	col, ok := sortColumns[key]
	if !ok {
		col = sortColumns[biz.SortNewest]
	}
	return db.Order(col).Order(clause.OrderByColumn{Column: clause.Column{Table: "movies", Name: "id"}})
}
