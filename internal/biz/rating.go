package biz

import (
	"context"
	"fmt"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// Rating bounds accepted for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// RatingAggregator keeps Movie.AverageRating equal to the mean of the movie's
// review ratings.
type RatingAggregator struct {
	movieRepo  MovieRepo
	reviewRepo ReviewRepo
	log        *log.Helper
}

// NewRatingAggregator creates a new RatingAggregator instance
func NewRatingAggregator(movieRepo MovieRepo, reviewRepo ReviewRepo, logger log.Logger) *RatingAggregator {
	return &RatingAggregator{
		movieRepo:  movieRepo,
		reviewRepo: reviewRepo,
		log:        log.NewHelper(logger),
	}
}

// Recompute stores the mean review rating on the movie, 0 when it has no
// reviews. Callers run it in the same transaction as the review write so a
// completed write is never followed by a stale read. Concurrent writers on
// one movie resolve last-write-wins.
func (a *RatingAggregator) Recompute(ctx context.Context, movieID string) (float64, error) {
	average, err := a.reviewRepo.AverageRating(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	if err := a.movieRepo.SetAverageRating(ctx, movieID, average); err != nil {
		return 0, fmt.Errorf("failed to store average rating: %w", err)
	}
	metrics.RatingRecomputesTotal.Inc()
	a.log.Debugf("movie %s average rating is now %.4f", movieID, average)
	return average, nil
}

// ReviewUseCase handles review writes and reads
type ReviewUseCase struct {
	tx         Transaction
	movieRepo  MovieRepo
	reviewRepo ReviewRepo
	aggregator *RatingAggregator
	log        *log.Helper
}

// NewReviewUseCase creates a new ReviewUseCase instance
func NewReviewUseCase(tx Transaction, movieRepo MovieRepo, reviewRepo ReviewRepo, aggregator *RatingAggregator, logger log.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		tx:         tx,
		movieRepo:  movieRepo,
		reviewRepo: reviewRepo,
		aggregator: aggregator,
		log:        log.NewHelper(logger),
	}
}

// CreateReview adds the user's review of a movie. If the user already
// reviewed it, the existing review is returned with created=false.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, movieID, userID string, rating int, comment string) (*Review, bool, error) {
	if err := checkRating(rating); err != nil {
		return nil, false, err
	}

	var (
		review  *Review
		created bool
		average float64
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
			return err
		}

		review = &Review{
			MovieID: movieID,
			UserID:  userID,
			Rating:  rating,
			Comment: comment,
		}
		var err error
		created, err = uc.reviewRepo.CreateReview(ctx, review)
		if err != nil {
			return err
		}
		if !created {
			review, err = uc.reviewRepo.FindReview(ctx, movieID, userID)
			return err
		}

		average, err = uc.aggregator.Recompute(ctx, movieID)
		return err
	})
	if err != nil {
		metrics.ReviewWritesTotal.WithLabelValues("create", "error").Inc()
		return nil, false, err
	}

	if !created {
		metrics.ReviewWritesTotal.WithLabelValues("create", "duplicate").Inc()
		uc.log.Infof("user %s already reviewed movie %s", userID, movieID)
		return review, false, nil
	}

	metrics.ReviewWritesTotal.WithLabelValues("create", "ok").Inc()
	uc.movieRepo.RatingChanged(ctx, movieID, average)
	return review, true, nil
}

// UpdateReview edits the caller's own review. Rating edits recompute the
// movie average like creates and deletes do.
func (uc *ReviewUseCase) UpdateReview(ctx context.Context, reviewID uint64, userID string, rating int, comment string) (*Review, error) {
	if err := checkRating(rating); err != nil {
		return nil, err
	}

	var (
		review  *Review
		average float64
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		review, err = uc.reviewRepo.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != userID {
			return v1.ErrorForbidden("review %d belongs to another user", reviewID)
		}

		review.Rating = rating
		review.Comment = comment
		if err := uc.reviewRepo.UpdateReview(ctx, review); err != nil {
			return err
		}

		average, err = uc.aggregator.Recompute(ctx, review.MovieID)
		return err
	})
	if err != nil {
		metrics.ReviewWritesTotal.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	metrics.ReviewWritesTotal.WithLabelValues("update", "ok").Inc()
	uc.movieRepo.RatingChanged(ctx, review.MovieID, average)
	return review, nil
}

// DeleteReview removes the caller's own review and returns the movie's new
// average rating.
func (uc *ReviewUseCase) DeleteReview(ctx context.Context, reviewID uint64, userID string) (string, float64, error) {
	return uc.deleteReview(ctx, reviewID, func(r *Review) error {
		if r.UserID != userID {
			return v1.ErrorForbidden("review %d belongs to another user", reviewID)
		}
		return nil
	})
}

// AdminDeleteReview removes any review.
func (uc *ReviewUseCase) AdminDeleteReview(ctx context.Context, reviewID uint64) (string, float64, error) {
	return uc.deleteReview(ctx, reviewID, nil)
}

func (uc *ReviewUseCase) deleteReview(ctx context.Context, reviewID uint64, authorize func(*Review) error) (string, float64, error) {
	var (
		movieID string
		average float64
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		review, err := uc.reviewRepo.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if authorize != nil {
			if err := authorize(review); err != nil {
				return err
			}
		}
		movieID = review.MovieID

		if err := uc.reviewRepo.DeleteReview(ctx, reviewID); err != nil {
			return err
		}

		average, err = uc.aggregator.Recompute(ctx, movieID)
		return err
	})
	if err != nil {
		metrics.ReviewWritesTotal.WithLabelValues("delete", "error").Inc()
		return "", 0, err
	}

	metrics.ReviewWritesTotal.WithLabelValues("delete", "ok").Inc()
	uc.movieRepo.RatingChanged(ctx, movieID, average)
	return movieID, average, nil
}

// RecomputeRating rebuilds a movie's average from its reviews.
func (uc *ReviewUseCase) RecomputeRating(ctx context.Context, movieID string) (float64, error) {
	var average float64
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
			return err
		}
		var err error
		average, err = uc.aggregator.Recompute(ctx, movieID)
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.movieRepo.RatingChanged(ctx, movieID, average)
	return average, nil
}

// ListMovieReviews returns a movie's reviews, newest first.
func (uc *ReviewUseCase) ListMovieReviews(ctx context.Context, movieID string) ([]*Review, error) {
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	reviews, err := uc.reviewRepo.ListMovieReviews(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListUserReviews pages through a user's reviews, newest first.
func (uc *ReviewUseCase) ListUserReviews(ctx context.Context, userID, page string) (*ReviewPage, error) {
	reviews, err := uc.reviewRepo.PageUserReviews(ctx, userID, page, ProfileReviewPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func checkRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return v1.ErrorUnprocessableEntity("rating must be an integer between %d and %d", MinRating, MaxRating)
	}
	return nil
}
