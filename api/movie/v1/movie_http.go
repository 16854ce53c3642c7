package v1

import (
	"context"
	"net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationMovieServiceHealthCheck      = "/api.movie.v1.MovieService/HealthCheck"
	OperationMovieServiceHome             = "/api.movie.v1.MovieService/Home"
	OperationMovieServiceListMovies       = "/api.movie.v1.MovieService/ListMovies"
	OperationMovieServiceSearch           = "/api.movie.v1.MovieService/Search"
	OperationMovieServiceGetMovie         = "/api.movie.v1.MovieService/GetMovie"
	OperationMovieServiceListMovieReviews = "/api.movie.v1.MovieService/ListMovieReviews"
	OperationMovieServiceCreateReview     = "/api.movie.v1.MovieService/CreateReview"
	OperationMovieServiceUpdateReview     = "/api.movie.v1.MovieService/UpdateReview"
	OperationMovieServiceDeleteReview     = "/api.movie.v1.MovieService/DeleteReview"
	OperationMovieServiceListGenres       = "/api.movie.v1.MovieService/ListGenres"
	OperationMovieServiceGenrePage        = "/api.movie.v1.MovieService/GenrePage"
	OperationMovieServiceTopRated         = "/api.movie.v1.MovieService/TopRated"

	OperationAccountServiceRegister            = "/api.movie.v1.AccountService/Register"
	OperationAccountServiceLogin               = "/api.movie.v1.AccountService/Login"
	OperationAccountServiceGetProfile          = "/api.movie.v1.AccountService/GetProfile"
	OperationAccountServiceEditProfile         = "/api.movie.v1.AccountService/EditProfile"
	OperationAccountServiceListMyReviews       = "/api.movie.v1.AccountService/ListMyReviews"
	OperationAccountServiceListMyWatchlist     = "/api.movie.v1.AccountService/ListMyWatchlist"
	OperationAccountServiceActivityFeed        = "/api.movie.v1.AccountService/ActivityFeed"
	OperationAccountServiceAddToWatchlist      = "/api.movie.v1.AccountService/AddToWatchlist"
	OperationAccountServiceRemoveFromWatchlist = "/api.movie.v1.AccountService/RemoveFromWatchlist"

	OperationAdminServiceCreateGenre     = "/api.movie.v1.AdminService/CreateGenre"
	OperationAdminServiceCreateMovie     = "/api.movie.v1.AdminService/CreateMovie"
	OperationAdminServiceUpdateMovie     = "/api.movie.v1.AdminService/UpdateMovie"
	OperationAdminServiceDeleteMovie     = "/api.movie.v1.AdminService/DeleteMovie"
	OperationAdminServiceRecomputeRating = "/api.movie.v1.AdminService/RecomputeRating"
	OperationAdminServiceDeleteReview    = "/api.movie.v1.AdminService/DeleteReview"
)

type MovieServiceHTTPServer interface {
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckReply, error)
	Home(context.Context, *HomeRequest) (*HomeReply, error)
	ListMovies(context.Context, *ListMoviesRequest) (*ListMoviesReply, error)
	Search(context.Context, *SearchRequest) (*ListMoviesReply, error)
	GetMovie(context.Context, *GetMovieRequest) (*GetMovieReply, error)
	ListMovieReviews(context.Context, *ListMovieReviewsRequest) (*ListReviewsReply, error)
	CreateReview(context.Context, *CreateReviewRequest) (*ReviewReply, error)
	UpdateReview(context.Context, *UpdateReviewRequest) (*ReviewReply, error)
	DeleteReview(context.Context, *DeleteReviewRequest) (*DeleteReviewReply, error)
	ListGenres(context.Context, *ListGenresRequest) (*ListGenresReply, error)
	GenrePage(context.Context, *GenrePageRequest) (*GenrePageReply, error)
	TopRated(context.Context, *TopRatedRequest) (*TopRatedReply, error)
}

type AccountServiceHTTPServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterReply, error)
	Login(context.Context, *LoginRequest) (*TokenReply, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileReply, error)
	EditProfile(context.Context, *EditProfileRequest) (*ProfileReply, error)
	ListMyReviews(context.Context, *ListMyReviewsRequest) (*ListReviewsReply, error)
	ListMyWatchlist(context.Context, *ListMyWatchlistRequest) (*WatchlistReply, error)
	ActivityFeed(context.Context, *ActivityFeedRequest) (*ActivityFeedReply, error)
	AddToWatchlist(context.Context, *AddToWatchlistRequest) (*WatchlistEntryReply, error)
	RemoveFromWatchlist(context.Context, *RemoveFromWatchlistRequest) (*RemoveFromWatchlistReply, error)
}

type AdminServiceHTTPServer interface {
	CreateGenre(context.Context, *CreateGenreRequest) (*GenreReply, error)
	CreateMovie(context.Context, *CreateMovieRequest) (*MovieReply, error)
	UpdateMovie(context.Context, *UpdateMovieRequest) (*MovieReply, error)
	DeleteMovie(context.Context, *DeleteMovieRequest) (*DeleteMovieReply, error)
	RecomputeRating(context.Context, *RecomputeRatingRequest) (*RecomputeRatingReply, error)
	DeleteReview(context.Context, *AdminDeleteReviewRequest) (*DeleteReviewReply, error)
}

func RegisterMovieServiceHTTPServer(s *khttp.Server, srv MovieServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/healthz", handler(OperationMovieServiceHealthCheck, 0, srv.HealthCheck))
	r.GET("/v1/home", handler(OperationMovieServiceHome, bindQuery, srv.Home))
	r.GET("/v1/movies", handler(OperationMovieServiceListMovies, bindQuery, srv.ListMovies))
	r.GET("/v1/search", handler(OperationMovieServiceSearch, bindQuery, srv.Search))
	r.GET("/v1/movies/{id}", handler(OperationMovieServiceGetMovie, bindVars, srv.GetMovie))
	r.GET("/v1/movies/{id}/reviews", handler(OperationMovieServiceListMovieReviews, bindVars, srv.ListMovieReviews))
	r.POST("/v1/movies/{id}/reviews", handler(OperationMovieServiceCreateReview, bindBody|bindVars, srv.CreateReview))
	r.PUT("/v1/reviews/{id}", handler(OperationMovieServiceUpdateReview, bindBody|bindVars, srv.UpdateReview))
	r.DELETE("/v1/reviews/{id}", handler(OperationMovieServiceDeleteReview, bindVars, srv.DeleteReview))
	r.GET("/v1/genres", handler(OperationMovieServiceListGenres, 0, srv.ListGenres))
	r.GET("/v1/genres/{name}", handler(OperationMovieServiceGenrePage, bindQuery|bindVars, srv.GenrePage))
	r.GET("/v1/rankings/top", handler(OperationMovieServiceTopRated, bindQuery, srv.TopRated))
}

func RegisterAccountServiceHTTPServer(s *khttp.Server, srv AccountServiceHTTPServer) {
	r := s.Route("/")
	r.POST("/v1/users", handler(OperationAccountServiceRegister, bindBody, srv.Register))
	r.POST("/v1/tokens", handler(OperationAccountServiceLogin, bindBody, srv.Login))
	r.GET("/v1/profile", handler(OperationAccountServiceGetProfile, 0, srv.GetProfile))
	r.PUT("/v1/profile", handler(OperationAccountServiceEditProfile, bindBody, srv.EditProfile))
	r.GET("/v1/profile/reviews", handler(OperationAccountServiceListMyReviews, bindQuery, srv.ListMyReviews))
	r.GET("/v1/profile/watchlist", handler(OperationAccountServiceListMyWatchlist, bindQuery, srv.ListMyWatchlist))
	r.GET("/v1/profile/activity", handler(OperationAccountServiceActivityFeed, bindQuery, srv.ActivityFeed))
	r.POST("/v1/watchlist/{movie_id}", handler(OperationAccountServiceAddToWatchlist, bindVars, srv.AddToWatchlist))
	r.DELETE("/v1/watchlist/{movie_id}", handler(OperationAccountServiceRemoveFromWatchlist, bindVars, srv.RemoveFromWatchlist))
}

func RegisterAdminServiceHTTPServer(s *khttp.Server, srv AdminServiceHTTPServer) {
	r := s.Route("/")
	r.POST("/v1/admin/genres", handler(OperationAdminServiceCreateGenre, bindBody, srv.CreateGenre))
	r.POST("/v1/admin/movies", handler(OperationAdminServiceCreateMovie, bindBody, srv.CreateMovie))
	r.PUT("/v1/admin/movies/{id}", handler(OperationAdminServiceUpdateMovie, bindBody|bindVars, srv.UpdateMovie))
	r.DELETE("/v1/admin/movies/{id}", handler(OperationAdminServiceDeleteMovie, bindVars, srv.DeleteMovie))
	r.POST("/v1/admin/movies/{id}/recompute", handler(OperationAdminServiceRecomputeRating, bindVars, srv.RecomputeRating))
	r.DELETE("/v1/admin/reviews/{id}", handler(OperationAdminServiceDeleteReview, bindVars, srv.DeleteReview))
}

type binding uint8

const (
	bindBody binding = 1 << iota
	bindQuery
	bindVars
)

// handler adapts a typed service method to a kratos route. Path variables
// are bound last so they win over body fields of the same name.
func handler[Req any, Reply any](operation string, b binding, call func(context.Context, *Req) (*Reply, error)) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		var in Req
		if b&bindBody != 0 {
			if err := ctx.Bind(&in); err != nil {
				return err
			}
		}
		if b&bindQuery != 0 {
			if err := ctx.BindQuery(&in); err != nil {
				return err
			}
		}
		if b&bindVars != 0 {
			if err := ctx.BindVars(&in); err != nil {
				return err
			}
		}
		khttp.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	}
}
