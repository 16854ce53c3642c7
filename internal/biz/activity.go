package biz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// ActivityKind tells feed entries apart.
type ActivityKind string

const (
	ActivityReview    ActivityKind = "review"
	ActivityWatchlist ActivityKind = "watchlist"
)

// Activity is one entry of a user's activity feed.
type Activity struct {
	Kind      ActivityKind
	Text      string
	Timestamp time.Time
	Movie     *Movie
	// recordID is the id of the underlying review or watchlist row.
	recordID uint64
}

// ActivityPage is one page of the activity feed.
type ActivityPage struct {
	Items []*Activity
	Page  Page
}

// ActivityComposer merges a user's reviews and watchlist additions into a
// single feed.
type ActivityComposer struct {
	reviewRepo    ReviewRepo
	watchlistRepo WatchlistRepo
	log           *log.Helper
}

// NewActivityComposer creates a new ActivityComposer instance
func NewActivityComposer(reviewRepo ReviewRepo, watchlistRepo WatchlistRepo, logger log.Logger) *ActivityComposer {
	return &ActivityComposer{
		reviewRepo:    reviewRepo,
		watchlistRepo: watchlistRepo,
		log:           log.NewHelper(logger),
	}
}

// BuildFeed returns page of the user's activity, newest first. Entries with
// equal timestamps list reviews before watchlist additions, then the most
// recently inserted row first. Page numbers follow Paginate.
func (c *ActivityComposer) BuildFeed(ctx context.Context, userID, page string, pageSize int) (*ActivityPage, error) {
	entries, err := c.watchlistRepo.ListEntries(ctx, userID, WatchlistByDateDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist activity: %w", err)
	}
	reviews, err := c.reviewRepo.ListUserReviews(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review activity: %w", err)
	}

	activities := make([]*Activity, 0, len(entries)+len(reviews))
	for _, e := range entries {
		activities = append(activities, &Activity{
			Kind:      ActivityWatchlist,
			Text:      fmt.Sprintf("Added %s to watchlist", e.Movie.Title),
			Timestamp: e.AddedOn,
			Movie:     e.Movie,
			recordID:  e.ID,
		})
	}
	for _, r := range reviews {
		activities = append(activities, &Activity{
			Kind:      ActivityReview,
			Text:      fmt.Sprintf("Reviewed %s with %d★", r.MovieTitle, r.Rating),
			Timestamp: r.CreatedAt,
			Movie:     &Movie{ID: r.MovieID, Title: r.MovieTitle},
			recordID:  r.ID,
		})
	}

	SortActivities(activities)

	p := Paginate(int64(len(activities)), pageSize, page)
	return &ActivityPage{Items: Slice(activities, p), Page: p}, nil
}

// SortActivities orders activities newest first with a deterministic
// tie-break.
func SortActivities(activities []*Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		if a.Kind != b.Kind {
			return a.Kind == ActivityReview
		}
		return a.recordID > b.recordID
	})
}
