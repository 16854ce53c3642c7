package service

import (
	"context"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// MovieService implements the public catalog and review API
type MovieService struct {
	movieUC     *biz.MovieUseCase
	reviewUC    *biz.ReviewUseCase
	watchlistUC *biz.WatchlistUseCase
	log         *log.Helper
}

// NewMovieService creates a new MovieService
func NewMovieService(movieUC *biz.MovieUseCase, reviewUC *biz.ReviewUseCase, watchlistUC *biz.WatchlistUseCase, logger log.Logger) *MovieService {
	return &MovieService{
		movieUC:     movieUC,
		reviewUC:    reviewUC,
		watchlistUC: watchlistUC,
		log:         log.NewHelper(logger),
	}
}

// HealthCheck implements health check
func (s *MovieService) HealthCheck(ctx context.Context, req *v1.HealthCheckRequest) (*v1.HealthCheckReply, error) {
	return &v1.HealthCheckReply{Status: "ok"}, nil
}

func (s *MovieService) Home(ctx context.Context, req *v1.HomeRequest) (*v1.HomeReply, error) {
	home, err := s.movieUC.Home(ctx, req.Q, req.Genre, req.Year)
	if err != nil {
		return nil, err
	}
	return &v1.HomeReply{
		Trending:       moviesToItems(home.Trending),
		TopRated:       moviesToItems(home.TopRated),
		AvailableYears: yearsToWire(home.AvailableYears),
	}, nil
}

func (s *MovieService) ListMovies(ctx context.Context, req *v1.ListMoviesRequest) (*v1.ListMoviesReply, error) {
	page, err := s.movieUC.ListMovies(ctx, map[string]string{
		biz.FilterSearch:    req.Search,
		biz.FilterGenre:     req.Genre,
		biz.FilterYear:      req.Year,
		biz.FilterActor:     req.Actor,
		biz.FilterDirector:  req.Director,
		biz.FilterMinRating: req.MinRating,
		biz.FilterSort:      req.Sort,
	}, req.Page)
	if err != nil {
		return nil, err
	}
	return moviePageReply(page), nil
}

func (s *MovieService) Search(ctx context.Context, req *v1.SearchRequest) (*v1.ListMoviesReply, error) {
	page, err := s.movieUC.Search(ctx, map[string]string{
		biz.FilterQuery:     req.Q,
		biz.FilterGenre:     req.Genre,
		biz.FilterYear:      req.Year,
		biz.FilterMinRating: req.MinRating,
		biz.FilterDirector:  req.Director,
		biz.FilterActor:     req.Actor,
		biz.FilterSort:      req.Sort,
	}, req.Page)
	if err != nil {
		return nil, err
	}
	return moviePageReply(page), nil
}

// GetMovie returns the movie with its reviews. When the caller is signed in
// the reply also says whether they reviewed or watchlisted it.
func (s *MovieService) GetMovie(ctx context.Context, req *v1.GetMovieRequest) (*v1.GetMovieReply, error) {
	movie, err := s.movieUC.GetMovie(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewUC.ListMovieReviews(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	reply := &v1.GetMovieReply{
		Movie:   movieToItem(movie),
		Reviews: reviewsToItems(reviews),
	}
	if userID, ok := currentUserID(ctx); ok {
		for _, r := range reviews {
			if r.UserID == userID {
				reply.HasReviewed = true
				break
			}
		}
		reply.InWatchlist, err = s.watchlistUC.Contains(ctx, userID, req.Id)
		if err != nil {
			return nil, err
		}
	}
	return reply, nil
}

func (s *MovieService) ListMovieReviews(ctx context.Context, req *v1.ListMovieReviewsRequest) (*v1.ListReviewsReply, error) {
	reviews, err := s.reviewUC.ListMovieReviews(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	return &v1.ListReviewsReply{
		Items: reviewsToItems(reviews),
		Total: int64(len(reviews)),
	}, nil
}

func (s *MovieService) CreateReview(ctx context.Context, req *v1.CreateReviewRequest) (*v1.ReviewReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	review, created, err := s.reviewUC.CreateReview(ctx, req.Id, userID, int(req.Rating), req.Comment)
	if err != nil {
		return nil, err
	}
	reply := &v1.ReviewReply{Review: reviewToItem(review), Created: created}
	if created {
		reply.Message = "Review added"
	} else {
		reply.Message = "You have already reviewed this movie"
	}
	return reply, nil
}

func (s *MovieService) UpdateReview(ctx context.Context, req *v1.UpdateReviewRequest) (*v1.ReviewReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	review, err := s.reviewUC.UpdateReview(ctx, req.Id, userID, int(req.Rating), req.Comment)
	if err != nil {
		return nil, err
	}
	return &v1.ReviewReply{Review: reviewToItem(review), Message: "Review updated"}, nil
}

func (s *MovieService) DeleteReview(ctx context.Context, req *v1.DeleteReviewRequest) (*v1.DeleteReviewReply, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	movieID, average, err := s.reviewUC.DeleteReview(ctx, req.Id, userID)
	if err != nil {
		return nil, err
	}
	return &v1.DeleteReviewReply{MovieId: movieID, AverageRating: average}, nil
}

func (s *MovieService) ListGenres(ctx context.Context, req *v1.ListGenresRequest) (*v1.ListGenresReply, error) {
	genres, err := s.movieUC.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*v1.GenreItem, 0, len(genres))
	for _, g := range genres {
		items = append(items, genreToItem(g))
	}
	return &v1.ListGenresReply{Items: items}, nil
}

func (s *MovieService) GenrePage(ctx context.Context, req *v1.GenrePageRequest) (*v1.GenrePageReply, error) {
	gp, err := s.movieUC.GenrePage(ctx, req.Name, req.Sort, req.Year, req.Page)
	if err != nil {
		return nil, err
	}
	return &v1.GenrePageReply{
		Genre:          genreToItem(gp.Genre),
		Items:          moviesToItems(gp.Movies.Items),
		Page:           int32(gp.Movies.Page.Number),
		TotalPages:     int32(gp.Movies.Page.TotalPages),
		Total:          gp.Movies.Page.Total,
		CurrentSort:    string(gp.Movies.CurrentSort),
		AvailableYears: yearsToWire(gp.AvailableYears),
	}, nil
}

func (s *MovieService) TopRated(ctx context.Context, req *v1.TopRatedRequest) (*v1.TopRatedReply, error) {
	movies, ranking, err := s.movieUC.TopRated(ctx, req.Limit, req.Sort)
	if err != nil {
		return nil, err
	}
	return &v1.TopRatedReply{Items: moviesToItems(movies), Ranking: string(ranking)}, nil
}

func moviePageReply(page *biz.MoviePage) *v1.ListMoviesReply {
	return &v1.ListMoviesReply{
		Items:       moviesToItems(page.Items),
		Page:        int32(page.Page.Number),
		TotalPages:  int32(page.Page.TotalPages),
		Total:       page.Page.Total,
		CurrentSort: string(page.CurrentSort),
	}
}
