package biz

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/pkg/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MovieUseCase handles catalog reads and admin catalog writes
type MovieUseCase struct {
	tx             Transaction
	repo           MovieRepo
	genreRepo      GenreRepo
	metadataClient MetadataClient
	log            *log.Helper
}

// NewMovieUseCase creates a new MovieUseCase instance
func NewMovieUseCase(tx Transaction, repo MovieRepo, genreRepo GenreRepo, metadataClient MetadataClient, logger log.Logger) *MovieUseCase {
	return &MovieUseCase{
		tx:             tx,
		repo:           repo,
		genreRepo:      genreRepo,
		metadataClient: metadataClient,
		log:            log.NewHelper(logger),
	}
}

// CreateMovie creates a new movie, filling blank fields from the metadata API
func (uc *MovieUseCase) CreateMovie(ctx context.Context, in *MovieInput) (*Movie, error) {
	// Generate movie ID (UUID v7: time-ordered, distributed-friendly)
	movieID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate movie ID: %w", err)
	}

	movie := &Movie{ID: movieID.String()}
	applyInput(movie, in)

	// Try to fetch metadata (non-blocking on failure)
	var md *MovieMetadata
	if needsMetadata(movie) {
		md, err = uc.metadataClient.LookupMovie(ctx, movie.Title, movie.ReleaseDate.Year())
		switch {
		case err != nil:
			metrics.MetadataLookupsTotal.WithLabelValues("error").Inc()
			uc.log.Warnf("failed to fetch metadata for movie '%s': %v", movie.Title, err)
		case md != nil:
			metrics.MetadataLookupsTotal.WithLabelValues("ok").Inc()
			mergeMetadata(movie, md)
		default:
			metrics.MetadataLookupsTotal.WithLabelValues("skipped").Inc()
		}
	}

	err = uc.tx.InTx(ctx, func(ctx context.Context) error {
		if len(movie.Genres) == 0 && md != nil {
			genres, err := uc.knownGenres(ctx, md.Genres)
			if err != nil {
				return err
			}
			movie.Genres = genres
		}
		if err := uc.checkGenres(ctx, movie.Genres); err != nil {
			return err
		}
		return uc.repo.CreateMovie(ctx, movie)
	})
	if err != nil {
		return nil, err
	}
	return uc.repo.GetMovie(ctx, movie.ID)
}

// UpdateMovie replaces the editable fields of a movie. Year is re-derived
// from the release date; the average rating is left alone.
func (uc *MovieUseCase) UpdateMovie(ctx context.Context, id string, in *MovieInput) (*Movie, error) {
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		movie, err := uc.repo.GetMovie(ctx, id)
		if err != nil {
			return err
		}
		applyInput(movie, in)
		if err := uc.checkGenres(ctx, movie.Genres); err != nil {
			return err
		}
		return uc.repo.UpdateMovie(ctx, movie)
	})
	if err != nil {
		return nil, err
	}
	return uc.repo.GetMovie(ctx, id)
}

// DeleteMovie removes a movie together with its reviews, watchlist entries
// and genre links. Genres themselves are kept.
func (uc *MovieUseCase) DeleteMovie(ctx context.Context, id string) error {
	return uc.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := uc.repo.GetMovie(ctx, id); err != nil {
			return err
		}
		return uc.repo.DeleteMovie(ctx, id)
	})
}

// GetMovie retrieves a movie by its ID
func (uc *MovieUseCase) GetMovie(ctx context.Context, id string) (*Movie, error) {
	return uc.repo.GetMovie(ctx, id)
}

// ListMovies serves the REST listing: search over title, description,
// actors and director, newest releases first by default.
func (uc *MovieUseCase) ListMovies(ctx context.Context, raw map[string]string, page string) (*MoviePage, error) {
	filter := ParseMovieFilter(raw, SortNewest)
	return uc.listMovies(ctx, filter, page, MoviePageSize)
}

// Search serves the full-catalog search, which also matches genre names and
// years and ranks by rating by default.
func (uc *MovieUseCase) Search(ctx context.Context, raw map[string]string, page string) (*MoviePage, error) {
	filter := ParseMovieFilter(raw, SortRatingDesc)
	filter.SearchScope = SearchCatalog
	return uc.listMovies(ctx, filter, page, MoviePageSize)
}

func (uc *MovieUseCase) listMovies(ctx context.Context, filter *MovieFilter, page string, size int) (*MoviePage, error) {
	result, err := uc.repo.ListMovies(ctx, filter, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return result, nil
}

// Home holds the landing page shelves.
type Home struct {
	Trending       []*Movie
	TopRated       []*Movie
	AvailableYears []int
}

// Home returns the newest and the best rated movies matching q, genre and
// year, plus every year present in the catalog.
func (uc *MovieUseCase) Home(ctx context.Context, q, genre, year string) (*Home, error) {
	filter := ParseMovieFilter(map[string]string{
		FilterQuery: q,
		FilterGenre: genre,
		FilterYear:  year,
	}, SortNewest)
	filter.SearchScope = SearchHome

	trending, err := uc.repo.TopMovies(ctx, filter, SortNewest, HomeShelfSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending movies: %w", err)
	}
	topRated, err := uc.repo.TopMovies(ctx, filter, SortRatingDesc, HomeShelfSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list top rated movies: %w", err)
	}
	years, err := uc.repo.AvailableYears(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	return &Home{Trending: trending, TopRated: topRated, AvailableYears: years}, nil
}

// GenrePage holds one page of a genre listing.
type GenrePage struct {
	Genre          *Genre
	Movies         *MoviePage
	AvailableYears []int
}

// GenrePage lists a genre's movies four at a time.
func (uc *MovieUseCase) GenrePage(ctx context.Context, name, sort, year, page string) (*GenrePage, error) {
	genre, err := uc.genreRepo.GetGenreByName(ctx, name)
	if err != nil {
		return nil, err
	}

	filter := &MovieFilter{
		Genre: &genre.Name,
		Year:  parseYear(year),
		Sort:  ParseSortIn(sort, SortNewest, GenreSorts),
	}
	movies, err := uc.listMovies(ctx, filter, page, GenrePageSize)
	if err != nil {
		return nil, err
	}
	years, err := uc.repo.AvailableYears(ctx, &MovieFilter{Genre: &genre.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	return &GenrePage{Genre: genre, Movies: movies, AvailableYears: years}, nil
}

// ListGenres returns genres that have at least one movie.
func (uc *MovieUseCase) ListGenres(ctx context.Context) ([]*Genre, error) {
	genres, err := uc.genreRepo.ListGenresInUse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// CreateGenre adds a genre. Names are unique regardless of case.
func (uc *MovieUseCase) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, v1.ErrorUnprocessableEntity("genre name is required")
	}
	if _, err := uc.genreRepo.GetGenreByName(ctx, name); err == nil {
		return nil, v1.ErrorGenreExists("genre %q already exists", name)
	} else if !v1.IsGenreNotFound(err) {
		return nil, err
	}
	return uc.genreRepo.CreateGenre(ctx, name)
}

// TopRated returns the best rated or the most reviewed movies. The cached
// leaderboard only serves a request it can fill completely; anything short
// of limit is answered from the database.
func (uc *MovieUseCase) TopRated(ctx context.Context, limit, sort string) ([]*Movie, Ranking, error) {
	n, err := strconv.Atoi(strings.TrimSpace(limit))
	if err != nil || n < 1 {
		n = HomeShelfSize
	}
	if n > MaxTopRated {
		n = MaxTopRated
	}
	ranking := ParseRanking(sort)

	ids, err := uc.repo.RankedIDs(ctx, ranking, n)
	if err != nil {
		uc.log.Warnf("failed to read %s ranking, falling back to database: %v", ranking, err)
	} else if len(ids) >= n {
		movies, err := uc.repo.GetMovies(ctx, ids)
		switch {
		case err != nil:
			uc.log.Warnf("failed to load ranked movies, falling back to database: %v", err)
		case len(movies) < len(ids):
			uc.log.Warnf("ranking %s lists deleted movies, falling back to database", ranking)
		default:
			return movies, ranking, nil
		}
	}

	var movies []*Movie
	if ranking == RankingPopular {
		movies, err = uc.repo.MostReviewed(ctx, n)
	} else {
		movies, err = uc.repo.TopMovies(ctx, &MovieFilter{}, SortRatingDesc, n)
	}
	if err != nil {
		return nil, ranking, fmt.Errorf("failed to list %s movies: %w", ranking, err)
	}
	return movies, ranking, nil
}

// knownGenres keeps the metadata genres the catalog already has. Metadata
// never creates genres.
func (uc *MovieUseCase) knownGenres(ctx context.Context, names []string) ([]string, error) {
	var out []string
	for _, name := range names {
		g, err := uc.genreRepo.GetGenreByName(ctx, name)
		if v1.IsGenreNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, g.Name)
	}
	return out, nil
}

func (uc *MovieUseCase) checkGenres(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := uc.genreRepo.GetGenreByName(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// GenreDisplayName title-cases a genre name for display.
func GenreDisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

// FormatDuration renders d as "2h 16m", or "-" when unknown.
func FormatDuration(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}

// ParseActors splits a comma-delimited actor list, dropping blank entries.
func ParseActors(s string) []string {
	actors := make([]string, 0)
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			actors = append(actors, a)
		}
	}
	return actors
}

func applyInput(movie *Movie, in *MovieInput) {
	movie.Title = strings.TrimSpace(in.Title)
	movie.Duration = in.Duration
	movie.Description = in.Description
	movie.ReleaseDate = in.ReleaseDate
	movie.Year = in.ReleaseDate.Year()
	movie.Director = strings.TrimSpace(in.Director)
	movie.Actors = ParseActors(strings.Join(in.Actors, ","))
	movie.Genres = in.Genres
	movie.PosterURL = in.PosterURL
}

func needsMetadata(m *Movie) bool {
	return m.Director == "" || len(m.Actors) == 0 || len(m.Genres) == 0 || m.Description == "" || m.PosterURL == "" || m.Duration == nil
}

// mergeMetadata fills blank fields; values supplied by the caller win.
func mergeMetadata(m *Movie, md *MovieMetadata) {
	if m.Director == "" {
		m.Director = md.Director
	}
	if len(m.Actors) == 0 {
		m.Actors = md.Actors
	}
	if m.Description == "" {
		m.Description = md.Plot
	}
	if m.PosterURL == "" {
		m.PosterURL = md.PosterURL
	}
	if m.Duration == nil && md.RuntimeMins != nil {
		d := time.Duration(*md.RuntimeMins) * time.Minute
		m.Duration = &d
	}
}
