package service

import (
	"context"
	"time"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// AdminService implements the catalog management API
type AdminService struct {
	movieUC  *biz.MovieUseCase
	reviewUC *biz.ReviewUseCase
	log      *log.Helper
}

// NewAdminService creates a new AdminService
func NewAdminService(movieUC *biz.MovieUseCase, reviewUC *biz.ReviewUseCase, logger log.Logger) *AdminService {
	return &AdminService{
		movieUC:  movieUC,
		reviewUC: reviewUC,
		log:      log.NewHelper(logger),
	}
}

func (s *AdminService) CreateGenre(ctx context.Context, req *v1.CreateGenreRequest) (*v1.GenreReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	genre, err := s.movieUC.CreateGenre(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &v1.GenreReply{Genre: genreToItem(genre)}, nil
}

func (s *AdminService) CreateMovie(ctx context.Context, req *v1.CreateMovieRequest) (*v1.MovieReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	in, err := toMovieInput(&req.MovieInput)
	if err != nil {
		return nil, err
	}
	movie, err := s.movieUC.CreateMovie(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Infof("created movie %s (%s)", movie.Title, movie.ID)
	return v1.NewCreatedMovieReply(movieToItem(movie)), nil
}

func (s *AdminService) UpdateMovie(ctx context.Context, req *v1.UpdateMovieRequest) (*v1.MovieReply, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	in, err := toMovieInput(&req.MovieInput)
	if err != nil {
		return nil, err
	}
	movie, err := s.movieUC.UpdateMovie(ctx, req.Id, in)
	if err != nil {
		return nil, err
	}
	return &v1.MovieReply{Movie: movieToItem(movie)}, nil
}

func (s *AdminService) DeleteMovie(ctx context.Context, req *v1.DeleteMovieRequest) (*v1.DeleteMovieReply, error) {
	if err := s.movieUC.DeleteMovie(ctx, req.Id); err != nil {
		return nil, err
	}
	s.log.Infof("deleted movie %s", req.Id)
	return &v1.DeleteMovieReply{}, nil
}

func (s *AdminService) RecomputeRating(ctx context.Context, req *v1.RecomputeRatingRequest) (*v1.RecomputeRatingReply, error) {
	average, err := s.reviewUC.RecomputeRating(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return &v1.RecomputeRatingReply{MovieId: req.Id, AverageRating: average}, nil
}

func (s *AdminService) DeleteReview(ctx context.Context, req *v1.AdminDeleteReviewRequest) (*v1.DeleteReviewReply, error) {
	movieID, average, err := s.reviewUC.AdminDeleteReview(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return &v1.DeleteReviewReply{MovieId: movieID, AverageRating: average}, nil
}

func toMovieInput(in *v1.MovieInput) (*biz.MovieInput, error) {
	releaseDate, err := time.Parse(dateLayout, in.ReleaseDate)
	if err != nil {
		return nil, v1.ErrorUnprocessableEntity("invalid release_date format, expected YYYY-MM-DD: %v", err)
	}
	out := &biz.MovieInput{
		Title:       in.Title,
		Description: in.Description,
		ReleaseDate: releaseDate,
		Director:    in.Director,
		Actors:      in.Actors,
		Genres:      in.Genres,
		PosterURL:   in.PosterUrl,
	}
	if in.DurationMinutes != nil {
		d := time.Duration(*in.DurationMinutes) * time.Minute
		out.Duration = &d
	}
	return out, nil
}
