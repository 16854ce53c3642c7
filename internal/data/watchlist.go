package data

import (
	"context"
	"fmt"
	"time"

	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm/clause"
)

type watchlistRepo struct {
	data *Data
	log  *log.Helper
}

// NewWatchlistRepo creates a new watchlist repository
func NewWatchlistRepo(data *Data, logger log.Logger) biz.WatchlistRepo {
	return &watchlistRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

var watchlistOrders = map[biz.WatchlistSort]clause.OrderByColumn{
	biz.WatchlistByTitleAsc:   {Column: clause.Column{Table: "movies", Name: "title"}},
	biz.WatchlistByTitleDesc:  {Column: clause.Column{Table: "movies", Name: "title"}, Desc: true},
	biz.WatchlistByDateAsc:    {Column: clause.Column{Table: "watchlist", Name: "added_on"}},
	biz.WatchlistByDateDesc:   {Column: clause.Column{Table: "watchlist", Name: "added_on"}, Desc: true},
	biz.WatchlistByRatingAsc:  {Column: clause.Column{Table: "movies", Name: "average_rating"}},
	biz.WatchlistByRatingDesc: {Column: clause.Column{Table: "movies", Name: "average_rating"}, Desc: true},
	biz.WatchlistByYearAsc:    {Column: clause.Column{Table: "movies", Name: "year"}},
	biz.WatchlistByYearDesc:   {Column: clause.Column{Table: "movies", Name: "year"}, Desc: true},
}

func (r *watchlistRepo) AddEntry(ctx context.Context, userID, movieID string) (*biz.WatchlistEntry, bool, error) {
	db := r.data.DB(ctx)
	entry := &Watchlist{UserID: userID, MovieID: movieID, AddedOn: time.Now().UTC()}

	result := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoNothing: true,
	}).Create(entry)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to add watchlist entry: %w", result.Error)
	}
	created := result.RowsAffected > 0

	var stored Watchlist
	err := db.Preload("Movie.Genres", orderGenres).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&stored).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to load watchlist entry: %w", err)
	}
	return watchlistToBiz(&stored), created, nil
}

func (r *watchlistRepo) RemoveEntry(ctx context.Context, userID, movieID string) (bool, error) {
	result := r.data.DB(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&Watchlist{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *watchlistRepo) Contains(ctx context.Context, userID, movieID string) (bool, error) {
	var count int64
	err := r.data.DB(ctx).Model(&Watchlist{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListEntries returns the user's entries in the given order, the most
// recently inserted row first among ties.
func (r *watchlistRepo) ListEntries(ctx context.Context, userID string, sort biz.WatchlistSort) ([]*biz.WatchlistEntry, error) {
	order, ok := watchlistOrders[sort]
	if !ok {
		order = watchlistOrders[biz.WatchlistByDateDesc]
	}

	var rows []Watchlist
	err := r.data.DB(ctx).
		Joins("JOIN movies ON movies.id = watchlist.movie_id").
		Preload("Movie.Genres", orderGenres).
		Where("watchlist.user_id = ?", userID).
		Order(order).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "watchlist", Name: "id"}, Desc: true}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*biz.WatchlistEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, watchlistToBiz(&rows[i]))
	}
	return entries, nil
}

func watchlistToBiz(w *Watchlist) *biz.WatchlistEntry {
	return &biz.WatchlistEntry{
		ID:      w.ID,
		UserID:  w.UserID,
		Movie:   movieToBiz(&w.Movie),
		AddedOn: w.AddedOn,
	}
}
