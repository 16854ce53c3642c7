package biz

import (
	"context"
	"fmt"

	"moviehub/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// WatchlistUseCase handles watchlist membership
type WatchlistUseCase struct {
	movieRepo MovieRepo
	repo      WatchlistRepo
	log       *log.Helper
}

// NewWatchlistUseCase creates a new WatchlistUseCase instance
func NewWatchlistUseCase(movieRepo MovieRepo, repo WatchlistRepo, logger log.Logger) *WatchlistUseCase {
	return &WatchlistUseCase{
		movieRepo: movieRepo,
		repo:      repo,
		log:       log.NewHelper(logger),
	}
}

// Add puts a movie on the user's watchlist. Adding a movie that is already
// there returns the existing entry with created=false.
func (uc *WatchlistUseCase) Add(ctx context.Context, userID, movieID string) (*WatchlistEntry, bool, error) {
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, false, err
	}

	entry, created, err := uc.repo.AddEntry(ctx, userID, movieID)
	if err != nil {
		metrics.WatchlistChangesTotal.WithLabelValues("add", "error").Inc()
		return nil, false, fmt.Errorf("failed to add to watchlist: %w", err)
	}
	if created {
		metrics.WatchlistChangesTotal.WithLabelValues("add", "created").Inc()
	} else {
		metrics.WatchlistChangesTotal.WithLabelValues("add", "exists").Inc()
	}
	return entry, created, nil
}

// Remove takes a movie off the watchlist. Removing an absent movie is a
// no-op and reports false.
func (uc *WatchlistUseCase) Remove(ctx context.Context, userID, movieID string) (bool, error) {
	removed, err := uc.repo.RemoveEntry(ctx, userID, movieID)
	if err != nil {
		metrics.WatchlistChangesTotal.WithLabelValues("remove", "error").Inc()
		return false, fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	if removed {
		metrics.WatchlistChangesTotal.WithLabelValues("remove", "removed").Inc()
	} else {
		metrics.WatchlistChangesTotal.WithLabelValues("remove", "absent").Inc()
	}
	return removed, nil
}

// Contains reports whether the movie is on the user's watchlist.
func (uc *WatchlistUseCase) Contains(ctx context.Context, userID, movieID string) (bool, error) {
	return uc.repo.Contains(ctx, userID, movieID)
}

// List returns the user's watchlist in the requested order.
func (uc *WatchlistUseCase) List(ctx context.Context, userID, sort string) ([]*WatchlistEntry, WatchlistSort, error) {
	key := ParseWatchlistSort(sort)
	entries, err := uc.repo.ListEntries(ctx, userID, key)
	if err != nil {
		return nil, key, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return entries, key, nil
}
