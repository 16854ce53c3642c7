package biz

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	v1 "moviehub/api/movie/v1"

	"github.com/go-kratos/kratos/v2/log"
)

func TestFormatDuration(t *testing.T) {
	d := 136 * time.Minute
	if got := FormatDuration(&d); got != "2h 16m" {
		t.Errorf("FormatDuration(136m) = %q, want 2h 16m", got)
	}
	short := 45 * time.Minute
	if got := FormatDuration(&short); got != "0h 45m" {
		t.Errorf("FormatDuration(45m) = %q, want 0h 45m", got)
	}
	if got := FormatDuration(nil); got != "-" {
		t.Errorf("FormatDuration(nil) = %q, want -", got)
	}
}

func TestParseActors(t *testing.T) {
	got := ParseActors(" Keanu Reeves, ,Carrie-Anne Moss,  ")
	if len(got) != 2 || got[0] != "Keanu Reeves" || got[1] != "Carrie-Anne Moss" {
		t.Fatalf("ParseActors() = %q", got)
	}
	if got := ParseActors(""); got == nil || len(got) != 0 {
		t.Fatalf("ParseActors(\"\") = %#v, want empty non-nil slice", got)
	}
}

func TestGenreDisplayName(t *testing.T) {
	if got := GenreDisplayName("science fiction"); got != "Science Fiction" {
		t.Errorf("GenreDisplayName() = %q", got)
	}
}

func TestMergeMetadataKeepsCallerValues(t *testing.T) {
	runtime := 148
	m := &Movie{Title: "Inception", Director: "Christopher Nolan"}
	mergeMetadata(m, &MovieMetadata{
		Director:    "Somebody Else",
		Actors:      []string{"Leonardo DiCaprio"},
		Plot:        "A thief who steals corporate secrets.",
		PosterURL:   "https://img.example/inception.jpg",
		RuntimeMins: &runtime,
	})

	if m.Director != "Christopher Nolan" {
		t.Errorf("Director = %q, caller value should win", m.Director)
	}
	if len(m.Actors) != 1 || m.Description == "" || m.PosterURL == "" {
		t.Errorf("blank fields were not filled: %+v", m)
	}
	if m.Duration == nil || *m.Duration != 148*time.Minute {
		t.Errorf("Duration = %v, want 148m", m.Duration)
	}
}

type stubMetadata struct {
	md  *MovieMetadata
	err error
}

func (s stubMetadata) LookupMovie(context.Context, string, int) (*MovieMetadata, error) {
	return s.md, s.err
}

type captureMovieRepo struct {
	fakeMovieRepo
}

func (r *captureMovieRepo) CreateMovie(_ context.Context, m *Movie) error {
	cp := *m
	r.movies[m.ID] = &cp
	return nil
}

type stubGenreRepo struct {
	GenreRepo
	names map[string]bool
}

func (r stubGenreRepo) GetGenreByName(_ context.Context, name string) (*Genre, error) {
	if !r.names[name] {
		return nil, v1.ErrorGenreNotFound("genre %q not found", name)
	}
	return &Genre{Name: name}, nil
}

func TestCreateMovie(t *testing.T) {
	ctx := context.Background()
	release := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)

	t.Run("metadata failure does not block creation", func(t *testing.T) {
		repo := &captureMovieRepo{fakeMovieRepo: *newFakeMovieRepo()}
		uc := NewMovieUseCase(fakeTx{}, repo, stubGenreRepo{names: map[string]bool{"drama": true}},
			stubMetadata{err: errors.New("upstream down")}, log.DefaultLogger)

		m, err := uc.CreateMovie(ctx, &MovieInput{Title: " Inception ", ReleaseDate: release, Genres: []string{"drama"}})
		if err != nil {
			t.Fatalf("CreateMovie() error = %v", err)
		}
		if m.Title != "Inception" || m.Year != 2010 || m.ID == "" {
			t.Fatalf("CreateMovie() = %+v", m)
		}
	})

	t.Run("metadata genres the catalog knows are linked", func(t *testing.T) {
		repo := &captureMovieRepo{fakeMovieRepo: *newFakeMovieRepo()}
		md := &MovieMetadata{Director: "Christopher Nolan", Genres: []string{"Action", "Sci-Fi", "Drama"}}
		uc := NewMovieUseCase(fakeTx{}, repo, stubGenreRepo{names: map[string]bool{"Action": true, "Drama": true}},
			stubMetadata{md: md}, log.DefaultLogger)

		m, err := uc.CreateMovie(ctx, &MovieInput{Title: "Inception", ReleaseDate: release})
		if err != nil {
			t.Fatalf("CreateMovie() error = %v", err)
		}
		if !reflect.DeepEqual(m.Genres, []string{"Action", "Drama"}) || m.Director != "Christopher Nolan" {
			t.Fatalf("CreateMovie() genres = %v, director = %q", m.Genres, m.Director)
		}

		m, err = uc.CreateMovie(ctx, &MovieInput{Title: "Inception", ReleaseDate: release, Genres: []string{"Drama"}})
		if err != nil {
			t.Fatalf("CreateMovie() error = %v", err)
		}
		if !reflect.DeepEqual(m.Genres, []string{"Drama"}) {
			t.Fatalf("caller genres = %v, want [Drama]", m.Genres)
		}
	})

	t.Run("unknown genre is rejected", func(t *testing.T) {
		repo := &captureMovieRepo{fakeMovieRepo: *newFakeMovieRepo()}
		uc := NewMovieUseCase(fakeTx{}, repo, stubGenreRepo{names: map[string]bool{}},
			stubMetadata{}, log.DefaultLogger)

		_, err := uc.CreateMovie(ctx, &MovieInput{Title: "Inception", ReleaseDate: release, Genres: []string{"noir"}})
		if !v1.IsGenreNotFound(err) {
			t.Fatalf("CreateMovie() error = %v, want genre not found", err)
		}
		if len(repo.movies) != 0 {
			t.Fatalf("movie was stored despite the error")
		}
	})
}
