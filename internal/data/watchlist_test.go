package data

import (
	"reflect"
	"testing"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

func entryTitles(entries []*biz.WatchlistEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Movie.Title)
	}
	return out
}

func TestWatchlistAddIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.genre(t, "Crime")
	m := f.movie(t, &biz.Movie{Title: "Heat", Genres: []string{"Crime"}})
	u := f.user(t, "alice")
	uc := biz.NewWatchlistUseCase(f.movies, f.watchlist, log.DefaultLogger)

	first, created, err := uc.Add(f.ctx, u.ID, m.ID)
	if err != nil || !created {
		t.Fatalf("Add() = %v, %v; want created", created, err)
	}
	if first.Movie.Title != "Heat" || !reflect.DeepEqual(first.Movie.Genres, []string{"Crime"}) {
		t.Fatalf("Add() entry movie = %+v", first.Movie)
	}

	second, created, err := uc.Add(f.ctx, u.ID, m.ID)
	if err != nil || created {
		t.Fatalf("second Add() = %v, %v; want existing entry", created, err)
	}
	if second.ID != first.ID || !second.AddedOn.Equal(first.AddedOn) {
		t.Fatalf("second Add() = %+v, want %+v", second, first)
	}

	var count int64
	f.data.db.Model(&Watchlist{}).Count(&count)
	if count != 1 {
		t.Fatalf("watchlist rows = %d, want 1", count)
	}

	if _, _, err := uc.Add(f.ctx, u.ID, "missing"); !v1.IsMovieNotFound(err) {
		t.Fatalf("Add(missing) error = %v, want movie not found", err)
	}
}

func TestWatchlistRemoveAbsentIsNoop(t *testing.T) {
	f := newFixture(t)
	heat := f.movie(t, &biz.Movie{Title: "Heat"})
	thief := f.movie(t, &biz.Movie{Title: "Thief"})
	u := f.user(t, "alice")
	uc := biz.NewWatchlistUseCase(f.movies, f.watchlist, log.DefaultLogger)

	if _, _, err := uc.Add(f.ctx, u.ID, heat.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	removed, err := uc.Remove(f.ctx, u.ID, thief.ID)
	if err != nil || removed {
		t.Fatalf("Remove(absent) = %v, %v; want false, nil", removed, err)
	}
	if ok, _ := uc.Contains(f.ctx, u.ID, heat.ID); !ok {
		t.Fatal("Remove(absent) touched another entry")
	}

	removed, err = uc.Remove(f.ctx, u.ID, heat.ID)
	if err != nil || !removed {
		t.Fatalf("Remove() = %v, %v; want true, nil", removed, err)
	}
	if ok, _ := uc.Contains(f.ctx, u.ID, heat.ID); ok {
		t.Fatal("Contains() after Remove() = true")
	}
	removed, err = uc.Remove(f.ctx, u.ID, heat.ID)
	if err != nil || removed {
		t.Fatalf("second Remove() = %v, %v; want false, nil", removed, err)
	}
}

func TestWatchlistSortOrders(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")
	other := f.user(t, "bob")
	for _, m := range []*biz.Movie{
		{Title: "Heat", ReleaseDate: date(1995, 12, 15), AverageRating: 4.8},
		{Title: "Collateral", ReleaseDate: date(2004, 8, 6), AverageRating: 3.9},
		{Title: "Thief", ReleaseDate: date(1981, 3, 27), AverageRating: 4.1},
	} {
		f.movie(t, m)
		if _, _, err := f.watchlist.AddEntry(f.ctx, u.ID, m.ID); err != nil {
			t.Fatalf("AddEntry() error = %v", err)
		}
	}
	if _, _, err := f.watchlist.AddEntry(f.ctx, other.ID, "movie-Heat"); err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}

	tests := []struct {
		sort biz.WatchlistSort
		want []string
	}{
		{biz.WatchlistByTitleAsc, []string{"Collateral", "Heat", "Thief"}},
		{biz.WatchlistByTitleDesc, []string{"Thief", "Heat", "Collateral"}},
		{biz.WatchlistByRatingDesc, []string{"Heat", "Thief", "Collateral"}},
		{biz.WatchlistByRatingAsc, []string{"Collateral", "Thief", "Heat"}},
		{biz.WatchlistByYearAsc, []string{"Thief", "Heat", "Collateral"}},
		{biz.WatchlistByYearDesc, []string{"Collateral", "Heat", "Thief"}},
		{biz.WatchlistByDateDesc, []string{"Thief", "Collateral", "Heat"}},
		{"bogus", []string{"Thief", "Collateral", "Heat"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			entries, err := f.watchlist.ListEntries(f.ctx, u.ID, tt.sort)
			if err != nil {
				t.Fatalf("ListEntries() error = %v", err)
			}
			if got := entryTitles(entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListEntries(%q) = %v, want %v", tt.sort, got, tt.want)
			}
		})
	}
}

func TestProfileLifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice")

	if _, err := f.users.GetProfile(f.ctx, u.ID); !v1.IsUserNotFound(err) {
		t.Fatalf("GetProfile() before EnsureProfile error = %v", err)
	}
	p, err := f.users.EnsureProfile(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("EnsureProfile() error = %v", err)
	}
	if p.Bio != "" || p.AvatarURL != nil {
		t.Fatalf("new profile = %+v, want empty", p)
	}

	avatar := "https://example.com/a.png"
	if err := f.users.SaveProfile(f.ctx, &biz.Profile{UserID: u.ID, Bio: "film nerd", AvatarURL: &avatar}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	p, err = f.users.EnsureProfile(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("second EnsureProfile() error = %v", err)
	}
	if p.Bio != "film nerd" || p.AvatarURL == nil || *p.AvatarURL != avatar {
		t.Fatalf("EnsureProfile() replaced the saved profile: %+v", p)
	}

	if err := f.users.UpdateNames(f.ctx, u.ID, "Alice", "Liddell"); err != nil {
		t.Fatalf("UpdateNames() error = %v", err)
	}
	got, err := f.users.GetUser(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.FirstName != "Alice" || got.LastName != "Liddell" {
		t.Fatalf("GetUser() names = %q %q", got.FirstName, got.LastName)
	}
	if _, err := f.users.GetUser(f.ctx, "nobody"); !v1.IsUserNotFound(err) {
		t.Fatalf("GetUser(nobody) error = %v, want user not found", err)
	}
	if ok, _ := f.users.UsernameExists(f.ctx, "alice"); !ok {
		t.Fatal("UsernameExists(alice) = false")
	}
}
