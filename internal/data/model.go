package data

import (
	"time"

	"gorm.io/gorm"
)

// Genre represents the genres table
type Genre struct {
	ID        uint64    `gorm:"primaryKey"`
	Name      string    `gorm:"not null;size:100;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Genre) TableName() string {
	return "genres"
}

// Movie represents the movies table
type Movie struct {
	ID            string         `gorm:"primaryKey;size:64"`
	Title         string         `gorm:"not null;size:200;index"`
	Duration      *time.Duration `gorm:"column:duration"`
	Description   string         `gorm:"not null;type:text"`
	ReleaseDate   time.Time      `gorm:"not null;type:date;index"`
	Year          int            `gorm:"not null;index"`
	Director      string         `gorm:"not null;size:200;index"`
	Actors        string         `gorm:"not null;type:text"`
	AverageRating float64        `gorm:"not null;default:0;index"`
	PosterURL     string         `gorm:"column:poster_url;not null;size:500"`
	Genres        []Genre        `gorm:"many2many:movie_genres;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}

// BeforeSave keeps year in step with the release date on every save.
func (m *Movie) BeforeSave(tx *gorm.DB) error {
	m.Year = m.ReleaseDate.Year()
	return nil
}

// Review represents the reviews table
type Review struct {
	ID        uint64    `gorm:"primaryKey"`
	MovieID   string    `gorm:"not null;size:64;uniqueIndex:uq_review_movie_user;index"`
	UserID    string    `gorm:"not null;size:64;uniqueIndex:uq_review_movie_user;index"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"not null;type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Foreign keys
	Movie Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// Watchlist represents the watchlist table
type Watchlist struct {
	ID      uint64    `gorm:"primaryKey"`
	UserID  string    `gorm:"not null;size:64;uniqueIndex:uq_watchlist_user_movie;index"`
	MovieID string    `gorm:"not null;size:64;uniqueIndex:uq_watchlist_user_movie;index"`
	AddedOn time.Time `gorm:"not null;index"`

	// Foreign keys
	Movie Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (Watchlist) TableName() string {
	return "watchlist"
}

// User represents the users table
type User struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Username     string    `gorm:"not null;size:150;uniqueIndex"`
	Email        string    `gorm:"not null;size:254"`
	FirstName    string    `gorm:"not null;size:150"`
	LastName     string    `gorm:"not null;size:150"`
	PasswordHash string    `gorm:"not null;size:100"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// Profile represents the profiles table
type Profile struct {
	ID        uint64  `gorm:"primaryKey"`
	UserID    string  `gorm:"not null;size:64;uniqueIndex"`
	Bio       string  `gorm:"not null;type:text"`
	AvatarURL *string `gorm:"column:avatar_url;size:500"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (Profile) TableName() string {
	return "profiles"
}

// movieGenresTable is the join table behind Movie.Genres.
const movieGenresTable = "movie_genres"
