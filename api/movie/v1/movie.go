package v1

import "net/http"

// MovieItem is the wire form of a catalog movie.
type MovieItem struct {
	Id              string   `json:"id"`
	Title           string   `json:"title"`
	DurationMinutes *int32   `json:"duration_minutes"`
	DurationDisplay string   `json:"duration_display"`
	Description     string   `json:"description"`
	ReleaseDate     string   `json:"release_date"`
	Year            int32    `json:"year"`
	Director        string   `json:"director"`
	Actors          []string `json:"actors"`
	Genres          []string `json:"genres"`
	AverageRating   float64  `json:"average_rating"`
	PosterUrl       string   `json:"poster_url"`
}

// ReviewItem is the wire form of a review.
type ReviewItem struct {
	Id         uint64 `json:"id"`
	MovieId    string `json:"movie_id"`
	MovieTitle string `json:"movie_title,omitempty"`
	UserId     string `json:"user_id"`
	Username   string `json:"username,omitempty"`
	Rating     int32  `json:"rating"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type GenreItem struct {
	Id          uint64 `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	MovieCount  int64  `json:"movie_count"`
}

type HealthCheckRequest struct{}

type HealthCheckReply struct {
	Status string `json:"status"`
}

type HomeRequest struct {
	Q     string `json:"q"`
	Genre string `json:"genre"`
	Year  string `json:"year"`
}

type HomeReply struct {
	Trending       []*MovieItem `json:"trending"`
	TopRated       []*MovieItem `json:"top_rated"`
	AvailableYears []int32      `json:"available_years"`
}

type ListMoviesRequest struct {
	Search    string `json:"search"`
	Genre     string `json:"genre"`
	Year      string `json:"year"`
	Actor     string `json:"actor"`
	Director  string `json:"director"`
	MinRating string `json:"min_rating"`
	Sort      string `json:"sort"`
	Page      string `json:"page"`
}

type SearchRequest struct {
	Q         string `json:"q"`
	Genre     string `json:"genre"`
	Year      string `json:"year"`
	MinRating string `json:"min_rating"`
	Director  string `json:"director"`
	Actor     string `json:"actor"`
	Sort      string `json:"sort"`
	Page      string `json:"page"`
}

type ListMoviesReply struct {
	Items       []*MovieItem `json:"items"`
	Page        int32        `json:"page"`
	TotalPages  int32        `json:"total_pages"`
	Total       int64        `json:"total"`
	CurrentSort string       `json:"current_sort"`
}

type GetMovieRequest struct {
	Id string `json:"id"`
}

type GetMovieReply struct {
	Movie       *MovieItem    `json:"movie"`
	Reviews     []*ReviewItem `json:"reviews"`
	HasReviewed bool          `json:"has_reviewed"`
	InWatchlist bool          `json:"in_watchlist"`
}

type ListMovieReviewsRequest struct {
	Id string `json:"id"`
}

type ListReviewsReply struct {
	Items      []*ReviewItem `json:"items"`
	Page       int32         `json:"page,omitempty"`
	TotalPages int32         `json:"total_pages,omitempty"`
	Total      int64         `json:"total"`
}

type CreateReviewRequest struct {
	Id      string `json:"id" validate:"required"`
	Rating  int32  `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type UpdateReviewRequest struct {
	Id      uint64 `json:"id" validate:"required"`
	Rating  int32  `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// ReviewReply reports a review write. Created is false when the caller had
// already reviewed the movie; the existing review is returned unchanged.
type ReviewReply struct {
	Review  *ReviewItem `json:"review"`
	Created bool        `json:"created"`
	Message string      `json:"message"`
}

func (r *ReviewReply) HTTPStatus() int {
	if r.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

type DeleteReviewRequest struct {
	Id uint64 `json:"id"`
}

type DeleteReviewReply struct {
	MovieId       string  `json:"movie_id"`
	AverageRating float64 `json:"average_rating"`
}

type ListGenresRequest struct{}

type ListGenresReply struct {
	Items []*GenreItem `json:"items"`
}

type GenrePageRequest struct {
	Name string `json:"name"`
	Sort string `json:"sort"`
	Year string `json:"year"`
	Page string `json:"page"`
}

type GenrePageReply struct {
	Genre          *GenreItem   `json:"genre"`
	Items          []*MovieItem `json:"items"`
	Page           int32        `json:"page"`
	TotalPages     int32        `json:"total_pages"`
	Total          int64        `json:"total"`
	CurrentSort    string       `json:"current_sort"`
	AvailableYears []int32      `json:"available_years"`
}

// TopRatedRequest selects a leaderboard: sort=popular ranks by review
// count, anything else by average rating.
type TopRatedRequest struct {
	Limit string `json:"limit"`
	Sort  string `json:"sort"`
}

type TopRatedReply struct {
	Items   []*MovieItem `json:"items"`
	Ranking string       `json:"ranking"`
}
