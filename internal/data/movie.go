package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// movieGenre is a row of the movie/genre join table.
type movieGenre struct {
	MovieID string `gorm:"primaryKey;size:64"`
	GenreID uint64 `gorm:"primaryKey"`
}

func (movieGenre) TableName() string {
	return movieGenresTable
}

type movieRepo struct {
	data *Data
	log  *log.Helper
}

// NewMovieRepo creates a new movie repository
func NewMovieRepo(data *Data, logger log.Logger) biz.MovieRepo {
	return &movieRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func orderGenres(db *gorm.DB) *gorm.DB {
	return db.Order("genres.name")
}

func (r *movieRepo) CreateMovie(ctx context.Context, movie *biz.Movie) error {
	db := r.data.DB(ctx)
	dbMovie := r.bizToModel(movie)

	if err := db.Omit(clause.Associations).Create(dbMovie).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	if err := r.linkGenres(db, dbMovie.ID, movie.Genres); err != nil {
		return err
	}
	movie.Year = dbMovie.Year
	return nil
}

func (r *movieRepo) UpdateMovie(ctx context.Context, movie *biz.Movie) error {
	db := r.data.DB(ctx)

	var existing Movie
	if err := db.Where("id = ?", movie.ID).First(&existing).Error; err != nil {
		return r.notFound(err, movie.ID)
	}

	existing.Title = movie.Title
	existing.Duration = movie.Duration
	existing.Description = movie.Description
	existing.ReleaseDate = movie.ReleaseDate
	existing.Director = movie.Director
	existing.Actors = strings.Join(movie.Actors, ", ")
	existing.PosterURL = movie.PosterURL

	if err := db.Omit(clause.Associations).Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if err := db.Where("movie_id = ?", movie.ID).Delete(&movieGenre{}).Error; err != nil {
		return fmt.Errorf("failed to unlink genres: %w", err)
	}
	if err := r.linkGenres(db, movie.ID, movie.Genres); err != nil {
		return err
	}

	movie.Year = existing.Year
	r.data.cacheDel(ctx, movieCacheKey(movie.ID))
	return nil
}

// DeleteMovie removes the movie and every row that references it.
func (r *movieRepo) DeleteMovie(ctx context.Context, id string) error {
	db := r.data.DB(ctx)

	if err := db.Where("movie_id = ?", id).Delete(&Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	if err := db.Where("movie_id = ?", id).Delete(&Watchlist{}).Error; err != nil {
		return fmt.Errorf("failed to delete watchlist entries: %w", err)
	}
	if err := db.Where("movie_id = ?", id).Delete(&movieGenre{}).Error; err != nil {
		return fmt.Errorf("failed to unlink genres: %w", err)
	}
	result := db.Where("id = ?", id).Delete(&Movie{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return v1.ErrorMovieNotFound("movie %s not found", id)
	}

	r.data.cacheDel(ctx, movieCacheKey(id))
	r.data.removeFromRankings(ctx, id)
	return nil
}

func (r *movieRepo) GetMovie(ctx context.Context, id string) (*biz.Movie, error) {
	// Try cache first if Redis is available
	var cached biz.Movie
	if r.data.cacheGet(ctx, movieCacheKey(id), &cached) {
		r.log.Debugf("cache hit for movie: %s", id)
		return &cached, nil
	}

	// Query from database
	var dbMovie Movie
	err := r.data.DB(ctx).Preload("Genres", orderGenres).Where("id = ?", id).First(&dbMovie).Error
	if err != nil {
		return nil, r.notFound(err, id)
	}

	movie := r.modelToBiz(&dbMovie)
	r.data.cacheSet(ctx, movieCacheKey(id), movie)
	return movie, nil
}

func (r *movieRepo) GetMovies(ctx context.Context, ids []string) ([]*biz.Movie, error) {
	if len(ids) == 0 {
		return []*biz.Movie{}, nil
	}
	var dbMovies []Movie
	err := r.data.DB(ctx).Preload("Genres", orderGenres).Where("id IN ?", ids).Find(&dbMovies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	byID := make(map[string]*Movie, len(dbMovies))
	for i := range dbMovies {
		byID[dbMovies[i].ID] = &dbMovies[i]
	}
	movies := make([]*biz.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			movies = append(movies, r.modelToBiz(m))
		}
	}
	return movies, nil
}

func (r *movieRepo) ListMovies(ctx context.Context, filter *biz.MovieFilter, page string, pageSize int) (*biz.MoviePage, error) {
	db := r.data.DB(ctx)

	var total int64
	if err := applyMovieFilter(db.Model(&Movie{}), filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}
	p := biz.Paginate(total, pageSize, page)

	var dbMovies []Movie
	q := applyMovieSort(applyMovieFilter(db.Model(&Movie{}), filter), filter.Sort)
	if err := q.Preload("Genres", orderGenres).Offset(p.Offset()).Limit(p.Size).Find(&dbMovies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	return &biz.MoviePage{
		Items:       r.modelsToBiz(dbMovies),
		Page:        p,
		CurrentSort: filter.Sort,
	}, nil
}

func (r *movieRepo) TopMovies(ctx context.Context, filter *biz.MovieFilter, sort biz.SortKey, limit int) ([]*biz.Movie, error) {
	var dbMovies []Movie
	q := applyMovieSort(applyMovieFilter(r.data.DB(ctx).Model(&Movie{}), filter), sort)
	if err := q.Preload("Genres", orderGenres).Limit(limit).Find(&dbMovies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return r.modelsToBiz(dbMovies), nil
}

func (r *movieRepo) AvailableYears(ctx context.Context, filter *biz.MovieFilter) ([]int, error) {
	years := make([]int, 0)
	q := applyMovieFilter(r.data.DB(ctx).Model(&Movie{}), filter)
	if err := q.Distinct().Order("movies.year DESC").Pluck("movies.year", &years).Error; err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	return years, nil
}

func (r *movieRepo) SetAverageRating(ctx context.Context, id string, average float64) error {
	err := r.data.DB(ctx).Model(&Movie{}).Where("id = ?", id).UpdateColumn("average_rating", average).Error
	if err != nil {
		return fmt.Errorf("failed to update average rating: %w", err)
	}
	return nil
}

func (r *movieRepo) RatingChanged(ctx context.Context, id string, average float64) {
	r.data.cacheDel(ctx, movieCacheKey(id))
	if r.data.rdb == nil {
		return
	}
	if err := r.ensureRankings(ctx); err != nil {
		r.log.Warnf("failed to rebuild rankings: %v", err)
		return
	}

	var count int64
	if err := r.data.DB(ctx).Model(&Review{}).Where("movie_id = ?", id).Count(&count).Error; err != nil {
		r.log.Warnf("failed to count reviews for ranking update: %v", err)
		return
	}
	r.data.updateRankings(ctx, id, average, count)
}

func (r *movieRepo) RankedIDs(ctx context.Context, ranking biz.Ranking, limit int) ([]string, error) {
	if r.data.rdb == nil {
		return nil, nil
	}
	if err := r.ensureRankings(ctx); err != nil {
		return nil, fmt.Errorf("failed to rebuild rankings: %w", err)
	}
	key := rankTopRated
	if ranking == biz.RankingPopular {
		key = rankPopular
	}
	return r.data.ranked(ctx, key, limit)
}

// ensureRankings rebuilds the leaderboards from the reviews table when redis
// has lost them, for instance after a restart or a flush.
func (r *movieRepo) ensureRankings(ctx context.Context) error {
	built, err := r.data.rankingsBuilt(ctx)
	if err != nil || built {
		return err
	}

	var rows []rankedMovie
	err = r.data.DB(ctx).
		Table("movies").
		Select("movies.id AS id, movies.average_rating AS average_rating, COUNT(reviews.id) AS reviews").
		Joins("JOIN reviews ON reviews.movie_id = movies.id").
		Group("movies.id, movies.average_rating").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to load ranked movies: %w", err)
	}
	if err := r.data.replaceRankings(ctx, rows); err != nil {
		return err
	}
	r.log.Infof("rebuilt rankings for %d reviewed movies", len(rows))
	return nil
}

// MostReviewed orders the catalog by review count, unreviewed movies last.
func (r *movieRepo) MostReviewed(ctx context.Context, limit int) ([]*biz.Movie, error) {
	db := r.data.DB(ctx)
	counts := db.Session(&gorm.Session{NewDB: true}).
		Model(&Review{}).
		Select("movie_id, COUNT(*) AS reviews").
		Group("movie_id")

	var dbMovies []Movie
	err := db.Model(&Movie{}).
		Select("movies.*").
		Joins("LEFT JOIN (?) AS review_counts ON review_counts.movie_id = movies.id", counts).
		Order("COALESCE(review_counts.reviews, 0) DESC").
		Order(clause.OrderByColumn{Column: clause.Column{Table: "movies", Name: "id"}}).
		Preload("Genres", orderGenres).
		Limit(limit).
		Find(&dbMovies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list most reviewed movies: %w", err)
	}
	return r.modelsToBiz(dbMovies), nil
}

func (r *movieRepo) Recommend(ctx context.Context, userID string, limit int) ([]*biz.Movie, error) {
	db := r.data.DB(ctx)
	watched := db.Session(&gorm.Session{NewDB: true}).Model(&Watchlist{}).Select("movie_id").Where("user_id = ?", userID)
	reviewed := db.Session(&gorm.Session{NewDB: true}).Model(&Review{}).Select("movie_id").Where("user_id = ?", userID)

	var dbMovies []Movie
	q := db.Model(&Movie{}).
		Where("movies.id NOT IN (?)", watched).
		Where("movies.id NOT IN (?)", reviewed)
	if err := applyMovieSort(q, biz.SortRatingDesc).Preload("Genres", orderGenres).Limit(limit).Find(&dbMovies).Error; err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return r.modelsToBiz(dbMovies), nil
}

// linkGenres attaches the named genres to the movie. Names match
// case-insensitively; an unknown name is a not-found error.
func (r *movieRepo) linkGenres(db *gorm.DB, movieID string, names []string) error {
	seen := make(map[uint64]bool, len(names))
	for _, name := range names {
		var g Genre
		if err := db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return v1.ErrorGenreNotFound("genre %q not found", name)
			}
			return fmt.Errorf("failed to find genre: %w", err)
		}
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		if err := db.Create(&movieGenre{MovieID: movieID, GenreID: g.ID}).Error; err != nil {
			return fmt.Errorf("failed to link genre: %w", err)
		}
	}
	return nil
}

func (r *movieRepo) notFound(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v1.ErrorMovieNotFound("movie %s not found", id)
	}
	return fmt.Errorf("failed to get movie: %w", err)
}

// Helper: Convert biz.Movie to data.Movie
func (r *movieRepo) bizToModel(m *biz.Movie) *Movie {
	return &Movie{
		ID:            m.ID,
		Title:         m.Title,
		Duration:      m.Duration,
		Description:   m.Description,
		ReleaseDate:   m.ReleaseDate,
		Director:      m.Director,
		Actors:        strings.Join(m.Actors, ", "),
		AverageRating: m.AverageRating,
		PosterURL:     m.PosterURL,
	}
}

// Helper: Convert data.Movie to biz.Movie
func (r *movieRepo) modelToBiz(m *Movie) *biz.Movie {
	return movieToBiz(m)
}

func (r *movieRepo) modelsToBiz(ms []Movie) []*biz.Movie {
	movies := make([]*biz.Movie, 0, len(ms))
	for i := range ms {
		movies = append(movies, movieToBiz(&ms[i]))
	}
	return movies
}

func movieToBiz(m *Movie) *biz.Movie {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}
	return &biz.Movie{
		ID:            m.ID,
		Title:         m.Title,
		Duration:      m.Duration,
		Description:   m.Description,
		ReleaseDate:   m.ReleaseDate,
		Year:          m.Year,
		Director:      m.Director,
		Actors:        biz.ParseActors(m.Actors),
		Genres:        genres,
		AverageRating: m.AverageRating,
		PosterURL:     m.PosterURL,
	}
}
