package v1

import "net/http"

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type GenreReply struct {
	Genre *GenreItem `json:"genre"`
}

func (r *GenreReply) HTTPStatus() int {
	return http.StatusCreated
}

// MovieInput carries the editable movie fields. Year and average rating are
// derived and therefore absent.
type MovieInput struct {
	Title           string   `json:"title" validate:"required,max=200"`
	DurationMinutes *int32   `json:"duration_minutes" validate:"omitempty,gte=0"`
	Description     string   `json:"description"`
	ReleaseDate     string   `json:"release_date" validate:"required,datetime=2006-01-02"`
	Director        string   `json:"director" validate:"max=200"`
	Actors          []string `json:"actors" validate:"dive,max=200"`
	Genres          []string `json:"genres" validate:"dive,required,max=100"`
	PosterUrl       string   `json:"poster_url" validate:"max=500"`
}

type CreateMovieRequest struct {
	MovieInput
}

type UpdateMovieRequest struct {
	Id string `json:"id" validate:"required"`
	MovieInput
}

type MovieReply struct {
	Movie   *MovieItem `json:"movie"`
	created bool
}

// NewCreatedMovieReply answers 201.
func NewCreatedMovieReply(m *MovieItem) *MovieReply {
	return &MovieReply{Movie: m, created: true}
}

func (r *MovieReply) HTTPStatus() int {
	if r.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

type DeleteMovieRequest struct {
	Id string `json:"id"`
}

type DeleteMovieReply struct{}

type RecomputeRatingRequest struct {
	Id string `json:"id"`
}

type RecomputeRatingReply struct {
	MovieId       string  `json:"movie_id"`
	AverageRating float64 `json:"average_rating"`
}

type AdminDeleteReviewRequest struct {
	Id uint64 `json:"id"`
}
