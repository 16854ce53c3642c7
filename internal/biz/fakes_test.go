package biz

import (
	"context"
	"sort"
	"time"

	v1 "moviehub/api/movie/v1"
)

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeMovieRepo implements the MovieRepo methods the use cases under test
// call; anything else panics through the nil embedded interface.
type fakeMovieRepo struct {
	MovieRepo
	movies  map[string]*Movie
	changed []string
}

func newFakeMovieRepo(movies ...*Movie) *fakeMovieRepo {
	r := &fakeMovieRepo{movies: map[string]*Movie{}}
	for _, m := range movies {
		r.movies[m.ID] = m
	}
	return r
}

func (r *fakeMovieRepo) GetMovie(_ context.Context, id string) (*Movie, error) {
	m, ok := r.movies[id]
	if !ok {
		return nil, v1.ErrorMovieNotFound("movie %s not found", id)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovieRepo) SetAverageRating(_ context.Context, id string, average float64) error {
	r.movies[id].AverageRating = average
	return nil
}

func (r *fakeMovieRepo) RatingChanged(_ context.Context, id string, _ float64) {
	r.changed = append(r.changed, id)
}

type fakeReviewRepo struct {
	ReviewRepo
	reviews []*Review
	nextID  uint64
	now     func() time.Time
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{now: time.Now}
}

func (r *fakeReviewRepo) CreateReview(_ context.Context, review *Review) (bool, error) {
	for _, existing := range r.reviews {
		if existing.MovieID == review.MovieID && existing.UserID == review.UserID {
			return false, nil
		}
	}
	r.nextID++
	review.ID = r.nextID
	review.CreatedAt = r.now()
	review.UpdatedAt = review.CreatedAt
	cp := *review
	r.reviews = append(r.reviews, &cp)
	return true, nil
}

func (r *fakeReviewRepo) UpdateReview(_ context.Context, review *Review) error {
	for _, existing := range r.reviews {
		if existing.ID == review.ID {
			existing.Rating = review.Rating
			existing.Comment = review.Comment
			return nil
		}
	}
	return v1.ErrorReviewNotFound("review %d not found", review.ID)
}

func (r *fakeReviewRepo) DeleteReview(_ context.Context, id uint64) error {
	for i, existing := range r.reviews {
		if existing.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return v1.ErrorReviewNotFound("review %d not found", id)
}

func (r *fakeReviewRepo) GetReview(_ context.Context, id uint64) (*Review, error) {
	for _, existing := range r.reviews {
		if existing.ID == id {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, v1.ErrorReviewNotFound("review %d not found", id)
}

func (r *fakeReviewRepo) FindReview(_ context.Context, movieID, userID string) (*Review, error) {
	for _, existing := range r.reviews {
		if existing.MovieID == movieID && existing.UserID == userID {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, v1.ErrorReviewNotFound("no review")
}

func (r *fakeReviewRepo) ListUserReviews(_ context.Context, userID string) ([]*Review, error) {
	var out []*Review
	for _, existing := range r.reviews {
		if existing.UserID == userID {
			out = append(out, existing)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeReviewRepo) AverageRating(_ context.Context, movieID string) (float64, error) {
	var sum, n int
	for _, existing := range r.reviews {
		if existing.MovieID == movieID {
			sum += existing.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

type fakeWatchlistRepo struct {
	WatchlistRepo
	entries []*WatchlistEntry
}

func (r *fakeWatchlistRepo) ListEntries(_ context.Context, userID string, _ WatchlistSort) ([]*WatchlistEntry, error) {
	var out []*WatchlistEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
