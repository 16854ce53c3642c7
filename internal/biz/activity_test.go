package biz

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

func TestBuildFeedMergesAndPaginates(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	movie := func(id string) *Movie { return &Movie{ID: id, Title: "Movie " + id} }

	watchlist := &fakeWatchlistRepo{entries: []*WatchlistEntry{
		{ID: 1, UserID: "u1", Movie: movie("a"), AddedOn: base.Add(1 * time.Hour)},
		{ID: 2, UserID: "u1", Movie: movie("b"), AddedOn: base.Add(3 * time.Hour)},
		{ID: 3, UserID: "u1", Movie: movie("c"), AddedOn: base.Add(5 * time.Hour)},
		{ID: 4, UserID: "u2", Movie: movie("d"), AddedOn: base.Add(6 * time.Hour)},
	}}
	reviews := newFakeReviewRepo()
	reviews.reviews = []*Review{
		{ID: 1, UserID: "u1", MovieID: "a", MovieTitle: "Movie a", Rating: 4, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, UserID: "u1", MovieID: "b", MovieTitle: "Movie b", Rating: 5, CreatedAt: base.Add(4 * time.Hour)},
	}
	c := NewActivityComposer(reviews, watchlist, log.DefaultLogger)

	page1, err := c.BuildFeed(context.Background(), "u1", "1", 4)
	if err != nil {
		t.Fatalf("BuildFeed() error = %v", err)
	}
	if page1.Page.Total != 5 || page1.Page.TotalPages != 2 {
		t.Fatalf("total = %d pages = %d, want 5 and 2", page1.Page.Total, page1.Page.TotalPages)
	}
	if len(page1.Items) != 4 {
		t.Fatalf("page 1 has %d items, want 4", len(page1.Items))
	}
	wantKinds := []ActivityKind{ActivityWatchlist, ActivityReview, ActivityWatchlist, ActivityReview}
	for i, a := range page1.Items {
		if a.Kind != wantKinds[i] {
			t.Errorf("item %d kind = %s, want %s", i, a.Kind, wantKinds[i])
		}
		if i > 0 && a.Timestamp.After(page1.Items[i-1].Timestamp) {
			t.Errorf("item %d is newer than item %d", i, i-1)
		}
	}
	if got, want := page1.Items[1].Text, "Reviewed Movie b with 5★"; got != want {
		t.Errorf("review text = %q, want %q", got, want)
	}
	if got, want := page1.Items[0].Text, "Added Movie c to watchlist"; got != want {
		t.Errorf("watchlist text = %q, want %q", got, want)
	}

	page2, err := c.BuildFeed(context.Background(), "u1", "2", 4)
	if err != nil {
		t.Fatalf("BuildFeed() error = %v", err)
	}
	if len(page2.Items) != 1 || page2.Items[0].Movie.ID != "a" || page2.Items[0].Kind != ActivityWatchlist {
		t.Fatalf("page 2 = %+v, want the oldest watchlist add", page2.Items)
	}

	beyond, err := c.BuildFeed(context.Background(), "u1", "7", 4)
	if err != nil {
		t.Fatalf("BuildFeed() error = %v", err)
	}
	if beyond.Page.Number != 2 || len(beyond.Items) != 1 {
		t.Fatalf("page 7 resolved to page %d with %d items, want the last page", beyond.Page.Number, len(beyond.Items))
	}
}

func TestBuildFeedEmpty(t *testing.T) {
	c := NewActivityComposer(newFakeReviewRepo(), &fakeWatchlistRepo{}, log.DefaultLogger)

	feed, err := c.BuildFeed(context.Background(), "nobody", "3", 4)
	if err != nil {
		t.Fatalf("BuildFeed() error = %v", err)
	}
	if len(feed.Items) != 0 || feed.Page.Number != 1 || feed.Page.TotalPages != 1 {
		t.Fatalf("feed = %+v, want an empty first page", feed)
	}
}

func TestSortActivitiesTieBreak(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	activities := []*Activity{
		{Kind: ActivityWatchlist, Timestamp: ts, recordID: 9},
		{Kind: ActivityReview, Timestamp: ts, recordID: 1},
		{Kind: ActivityReview, Timestamp: ts, recordID: 2},
		{Kind: ActivityWatchlist, Timestamp: ts, recordID: 10},
	}

	SortActivities(activities)

	want := []struct {
		kind ActivityKind
		id   uint64
	}{
		{ActivityReview, 2},
		{ActivityReview, 1},
		{ActivityWatchlist, 10},
		{ActivityWatchlist, 9},
	}
	for i, w := range want {
		if activities[i].Kind != w.kind || activities[i].recordID != w.id {
			t.Errorf("position %d = %s/%d, want %s/%d", i, activities[i].Kind, activities[i].recordID, w.kind, w.id)
		}
	}
}
