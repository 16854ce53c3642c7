package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	data *Data
	log  *log.Helper
}

// NewReviewRepo creates a new review repository
func NewReviewRepo(data *Data, logger log.Logger) biz.ReviewRepo {
	return &reviewRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// reviewRow is a review joined with its movie title and author name.
type reviewRow struct {
	ID         uint64
	MovieID    string
	UserID     string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	MovieTitle string
	Username   string
}

func (r *reviewRepo) rows(ctx context.Context) *gorm.DB {
	return r.data.DB(ctx).
		Table("reviews").
		Select("reviews.id, reviews.movie_id, reviews.user_id, reviews.rating, reviews.comment, " +
			"reviews.created_at, reviews.updated_at, movies.title AS movie_title, users.username AS username").
		Joins("JOIN movies ON movies.id = reviews.movie_id").
		Joins("JOIN users ON users.id = reviews.user_id")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("reviews.created_at DESC").Order("reviews.id DESC")
}

func (r *reviewRepo) CreateReview(ctx context.Context, review *biz.Review) (bool, error) {
	dbReview := &Review{
		MovieID: review.MovieID,
		UserID:  review.UserID,
		Rating:  review.Rating,
		Comment: review.Comment,
	}

	// One review per (movie, user); a second insert is a no-op
	result := r.data.DB(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(dbReview)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	review.ID = dbReview.ID
	review.CreatedAt = dbReview.CreatedAt
	review.UpdatedAt = dbReview.UpdatedAt
	return true, nil
}

func (r *reviewRepo) UpdateReview(ctx context.Context, review *biz.Review) error {
	now := time.Now()
	result := r.data.DB(ctx).Model(&Review{}).Where("id = ?", review.ID).Updates(map[string]interface{}{
		"rating":     review.Rating,
		"comment":    review.Comment,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return v1.ErrorReviewNotFound("review %d not found", review.ID)
	}
	review.UpdatedAt = now
	return nil
}

func (r *reviewRepo) DeleteReview(ctx context.Context, id uint64) error {
	result := r.data.DB(ctx).Where("id = ?", id).Delete(&Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return v1.ErrorReviewNotFound("review %d not found", id)
	}
	return nil
}

func (r *reviewRepo) GetReview(ctx context.Context, id uint64) (*biz.Review, error) {
	var row reviewRow
	if err := r.rows(ctx).Where("reviews.id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v1.ErrorReviewNotFound("review %d not found", id)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return row.toBiz(), nil
}

func (r *reviewRepo) FindReview(ctx context.Context, movieID, userID string) (*biz.Review, error) {
	var row reviewRow
	err := r.rows(ctx).Where("reviews.movie_id = ? AND reviews.user_id = ?", movieID, userID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, v1.ErrorReviewNotFound("no review of movie %s by user %s", movieID, userID)
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return row.toBiz(), nil
}

func (r *reviewRepo) ListMovieReviews(ctx context.Context, movieID string) ([]*biz.Review, error) {
	var rows []reviewRow
	if err := newestFirst(r.rows(ctx).Where("reviews.movie_id = ?", movieID)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rowsToBiz(rows), nil
}

func (r *reviewRepo) ListUserReviews(ctx context.Context, userID string) ([]*biz.Review, error) {
	var rows []reviewRow
	if err := newestFirst(r.rows(ctx).Where("reviews.user_id = ?", userID)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rowsToBiz(rows), nil
}

func (r *reviewRepo) PageUserReviews(ctx context.Context, userID, page string, pageSize int) (*biz.ReviewPage, error) {
	var total int64
	if err := r.data.DB(ctx).Model(&Review{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	p := biz.Paginate(total, pageSize, page)

	var rows []reviewRow
	q := newestFirst(r.rows(ctx).Where("reviews.user_id = ?", userID))
	if err := q.Offset(p.Offset()).Limit(p.Size).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &biz.ReviewPage{Items: rowsToBiz(rows), Page: p}, nil
}

// AverageRating is the unrounded mean rating of the movie, 0 without reviews.
func (r *reviewRepo) AverageRating(ctx context.Context, movieID string) (float64, error) {
	var result struct {
		Average float64
	}
	err := r.data.DB(ctx).
		Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average").
		Where("movie_id = ?", movieID).
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get average rating: %w", err)
	}
	return result.Average, nil
}

func (r *reviewRepo) UserStats(ctx context.Context, userID string) (*biz.ReviewStats, error) {
	var result struct {
		Average *float64
		Total   int64
	}
	err := r.data.DB(ctx).
		Model(&Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}
	return &biz.ReviewStats{AverageRating: result.Average, TotalReviews: result.Total}, nil
}

// FavoriteGenre is the genre the user reviewed most, ties going to the
// lowest genre id. It returns nil when the user has no reviewed genres.
func (r *reviewRepo) FavoriteGenre(ctx context.Context, userID string) (*biz.Genre, error) {
	var rows []struct {
		ID    uint64
		Name  string
		Total int64
	}
	err := r.data.DB(ctx).
		Table("reviews").
		Select("genres.id AS id, genres.name AS name, COUNT(*) AS total").
		Joins("JOIN "+movieGenresTable+" ON "+movieGenresTable+".movie_id = reviews.movie_id").
		Joins("JOIN genres ON genres.id = "+movieGenresTable+".genre_id").
		Where("reviews.user_id = ?", userID).
		Group("genres.id, genres.name").
		Order("total DESC").
		Order("genres.id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite genre: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &biz.Genre{ID: rows[0].ID, Name: rows[0].Name, MovieCount: rows[0].Total}, nil
}

func (row *reviewRow) toBiz() *biz.Review {
	return &biz.Review{
		ID:         row.ID,
		MovieID:    row.MovieID,
		MovieTitle: row.MovieTitle,
		UserID:     row.UserID,
		Username:   row.Username,
		Rating:     row.Rating,
		Comment:    row.Comment,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func rowsToBiz(rows []reviewRow) []*biz.Review {
	reviews := make([]*biz.Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, rows[i].toBiz())
	}
	return reviews
}
