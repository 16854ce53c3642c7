package server

import (
	"net/http"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/biz"
	"moviehub/internal/conf"
	"moviehub/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/selector"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

const adminOperationPrefix = "/api.movie.v1.AdminService/"

// Custom response encoder to honour the status code chosen by the reply
func customResponseEncoder(w http.ResponseWriter, r *http.Request, v interface{}) error {
	// Check if response has status code metadata
	type StatusResponse interface {
		HTTPStatus() int
	}

	if sr, ok := v.(StatusResponse); ok {
		if code := sr.HTTPStatus(); code != http.StatusOK {
			w.WriteHeader(code)
		}
	}

	// Use default encoder for the response body
	return khttp.DefaultResponseEncoder(w, r, v)
}

// userJWT verifies HS256 user tokens and stores their claims in the context.
func userJWT(secret string) middleware.Middleware {
	return jwt.Server(
		func(*jwtv5.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithSigningMethod(jwtv5.SigningMethodHS256),
		jwt.WithClaims(func() jwtv5.Claims { return &biz.UserClaims{} }),
	)
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	auth *conf.Auth,
	movieSvc *service.MovieService,
	accountSvc *service.AccountService,
	adminSvc *service.AdminService,
	logger log.Logger,
) *khttp.Server {
	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			tracing.Server(),
			logging.Server(logger),
			ratelimit.Server(),
			selector.Server(AuthMiddleware(auth.AdminToken)).Prefix(adminOperationPrefix).Build(),
			selector.Server(userJWT(auth.JWTSecret)).Match(userOperation).Build(),
			selector.Server(OptionalAuth(userJWT(auth.JWTSecret))).Path(v1.OperationMovieServiceGetMovie).Build(),
		),
		khttp.ResponseEncoder(customResponseEncoder),
	}
	if c.HTTP != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, khttp.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, khttp.Address(c.HTTP.Addr))
		}
		if c.HTTP.Timeout != nil {
			opts = append(opts, khttp.Timeout(c.HTTP.Timeout.AsDuration()))
		}
	}
	srv := khttp.NewServer(opts...)
	srv.Handle("/metrics", promhttp.Handler())
	v1.RegisterMovieServiceHTTPServer(srv, movieSvc)
	v1.RegisterAccountServiceHTTPServer(srv, accountSvc)
	v1.RegisterAdminServiceHTTPServer(srv, adminSvc)
	return srv
}
