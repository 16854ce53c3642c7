package data

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"moviehub/internal/biz"
	"moviehub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

// newTestData opens a fresh on-disk sqlite database with foreign keys on.
// A non-empty redisAddr enables the cache.
func newTestData(t *testing.T, redisAddr string) *Data {
	t.Helper()
	return newTestDataWithLogger(t, redisAddr, log.DefaultLogger)
}

func newTestDataWithLogger(t *testing.T, redisAddr string, logger log.Logger) *Data {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moviehub.db")
	c := &conf.Data{
		Database: &conf.Data_Database{
			Driver:      "sqlite",
			Source:      "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
			AutoMigrate: true,
		},
	}
	if redisAddr != "" {
		c.Redis = &conf.Data_Redis{Addr: redisAddr, CacheTTL: conf.NewDuration(time.Minute)}
	}
	d, cleanup, err := NewData(c, logger)
	if err != nil {
		t.Fatalf("NewData() error = %v", err)
	}
	t.Cleanup(cleanup)
	return d
}

type fixture struct {
	ctx       context.Context
	data      *Data
	movies    biz.MovieRepo
	genres    biz.GenreRepo
	reviews   biz.ReviewRepo
	watchlist biz.WatchlistRepo
	users     biz.UserRepo
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithRedis(t, "")
}

func newFixtureWithRedis(t *testing.T, redisAddr string) *fixture {
	d := newTestData(t, redisAddr)
	return &fixture{
		ctx:       context.Background(),
		data:      d,
		movies:    NewMovieRepo(d, log.DefaultLogger),
		genres:    NewGenreRepo(d, log.DefaultLogger),
		reviews:   NewReviewRepo(d, log.DefaultLogger),
		watchlist: NewWatchlistRepo(d, log.DefaultLogger),
		users:     NewUserRepo(d, log.DefaultLogger),
	}
}

func (f *fixture) genre(t *testing.T, name string) *biz.Genre {
	t.Helper()
	g, err := f.genres.CreateGenre(f.ctx, name)
	if err != nil {
		t.Fatalf("CreateGenre(%q) error = %v", name, err)
	}
	return g
}

func (f *fixture) movie(t *testing.T, m *biz.Movie) *biz.Movie {
	t.Helper()
	if m.ID == "" {
		m.ID = fmt.Sprintf("movie-%s", m.Title)
	}
	if m.ReleaseDate.IsZero() {
		m.ReleaseDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if err := f.movies.CreateMovie(f.ctx, m); err != nil {
		t.Fatalf("CreateMovie(%q) error = %v", m.Title, err)
	}
	return m
}

func (f *fixture) user(t *testing.T, name string) *biz.User {
	t.Helper()
	u := &biz.User{ID: "user-" + name, Username: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := f.users.CreateUser(f.ctx, u); err != nil {
		t.Fatalf("CreateUser(%q) error = %v", name, err)
	}
	return u
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func titles(ms []*biz.Movie) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Title)
	}
	return out
}
