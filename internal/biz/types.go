package biz

import (
	"context"
	"time"
)

// Movie domain model
type Movie struct {
	ID            string
	Title         string
	Duration      *time.Duration
	Description   string
	ReleaseDate   time.Time
	Year          int
	Director      string
	Actors        []string
	Genres        []string
	AverageRating float64
	PosterURL     string
}

// MovieInput carries the editable fields of a movie.
type MovieInput struct {
	Title       string
	Duration    *time.Duration
	Description string
	ReleaseDate time.Time
	Director    string
	Actors      []string
	Genres      []string
	PosterURL   string
}

// Genre domain model
type Genre struct {
	ID         uint64
	Name       string
	MovieCount int64
}

// Review domain model
type Review struct {
	ID         uint64
	MovieID    string
	MovieTitle string
	UserID     string
	Username   string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WatchlistEntry domain model
type WatchlistEntry struct {
	ID      uint64
	UserID  string
	Movie   *Movie
	AddedOn time.Time
}

// User domain model
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile domain model
type Profile struct {
	UserID    string
	Bio       string
	AvatarURL *string
}

// ReviewStats summarises one user's reviews.
type ReviewStats struct {
	AverageRating *float64
	TotalReviews  int64
}

// MoviePage is one page of a movie listing.
type MoviePage struct {
	Items       []*Movie
	Page        Page
	CurrentSort SortKey
}

// ReviewPage is one page of a review listing.
type ReviewPage struct {
	Items []*Review
	Page  Page
}

// Transaction runs fn inside a database transaction carried by ctx.
type Transaction interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// MovieRepo defines the repository interface for movies
type MovieRepo interface {
	CreateMovie(ctx context.Context, movie *Movie) error
	UpdateMovie(ctx context.Context, movie *Movie) error
	DeleteMovie(ctx context.Context, id string) error
	GetMovie(ctx context.Context, id string) (*Movie, error)
	ListMovies(ctx context.Context, filter *MovieFilter, page string, pageSize int) (*MoviePage, error)
	TopMovies(ctx context.Context, filter *MovieFilter, sort SortKey, limit int) ([]*Movie, error)
	AvailableYears(ctx context.Context, filter *MovieFilter) ([]int, error)
	SetAverageRating(ctx context.Context, id string, average float64) error
	// Recommend returns the highest rated movies the user has neither
	// watchlisted nor reviewed.
	Recommend(ctx context.Context, userID string, limit int) ([]*Movie, error)
	// RatingChanged drops cached copies of the movie and refreshes rankings.
	RatingChanged(ctx context.Context, id string, average float64)
	// RankedIDs reads up to limit ids from the cached leaderboard, best
	// first. Only reviewed movies are ranked; nil without a cache.
	RankedIDs(ctx context.Context, ranking Ranking, limit int) ([]string, error)
	MostReviewed(ctx context.Context, limit int) ([]*Movie, error)
	GetMovies(ctx context.Context, ids []string) ([]*Movie, error)
}

// GenreRepo defines the repository interface for genres
type GenreRepo interface {
	CreateGenre(ctx context.Context, name string) (*Genre, error)
	GetGenreByName(ctx context.Context, name string) (*Genre, error)
	ListGenresInUse(ctx context.Context) ([]*Genre, error)
}

// ReviewRepo defines the repository interface for reviews
type ReviewRepo interface {
	// CreateReview inserts the review unless the (movie, user) pair exists,
	// in which case it reports false and leaves the table unchanged.
	CreateReview(ctx context.Context, review *Review) (bool, error)
	UpdateReview(ctx context.Context, review *Review) error
	DeleteReview(ctx context.Context, id uint64) error
	GetReview(ctx context.Context, id uint64) (*Review, error)
	FindReview(ctx context.Context, movieID, userID string) (*Review, error)
	ListMovieReviews(ctx context.Context, movieID string) ([]*Review, error)
	ListUserReviews(ctx context.Context, userID string) ([]*Review, error)
	PageUserReviews(ctx context.Context, userID, page string, pageSize int) (*ReviewPage, error)
	AverageRating(ctx context.Context, movieID string) (float64, error)
	UserStats(ctx context.Context, userID string) (*ReviewStats, error)
	FavoriteGenre(ctx context.Context, userID string) (*Genre, error)
}

// WatchlistRepo defines the repository interface for watchlist entries
type WatchlistRepo interface {
	// AddEntry inserts the pair unless it exists and reports whether a row was created.
	AddEntry(ctx context.Context, userID, movieID string) (*WatchlistEntry, bool, error)
	RemoveEntry(ctx context.Context, userID, movieID string) (bool, error)
	Contains(ctx context.Context, userID, movieID string) (bool, error)
	ListEntries(ctx context.Context, userID string, sort WatchlistSort) ([]*WatchlistEntry, error)
}

// UserRepo defines the repository interface for users and profiles
type UserRepo interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateNames(ctx context.Context, id string, firstName, lastName string) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// EnsureProfile creates an empty profile for the user if none exists.
	EnsureProfile(ctx context.Context, userID string) (*Profile, error)
	SaveProfile(ctx context.Context, profile *Profile) error
}

// MetadataClient defines the interface for the movie metadata API client
type MetadataClient interface {
	LookupMovie(ctx context.Context, title string, year int) (*MovieMetadata, error)
}

// MovieMetadata represents data from the metadata API
type MovieMetadata struct {
	Director    string
	Actors      []string
	Plot        string
	PosterURL   string
	Genres      []string
	RuntimeMins *int
}
