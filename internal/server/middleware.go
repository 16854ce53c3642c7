package server

import (
	"context"
	"crypto/subtle"
	"strings"

	v1 "moviehub/api/movie/v1"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
)

// AuthMiddleware validates the static admin Bearer token. An empty
// configured token rejects every request.
func AuthMiddleware(token string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			// Get transport info
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, v1.ErrorUnauthorized("missing transport info")
			}

			// Extract Authorization header
			authHeader := tr.RequestHeader().Get("Authorization")
			if authHeader == "" {
				return nil, v1.ErrorUnauthorized("missing Authorization header")
			}

			// Check Bearer token format
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, v1.ErrorUnauthorized("invalid Authorization header format")
			}

			// Validate token
			if token == "" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
				return nil, v1.ErrorUnauthorized("invalid token")
			}

			return handler(ctx, req)
		}
	}
}

// OptionalAuth applies m only when the request carries an Authorization
// header, so anonymous callers pass through while bad tokens still fail.
func OptionalAuth(m middleware.Middleware) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		authed := m(handler)
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if tr, ok := transport.FromServerContext(ctx); ok && tr.RequestHeader().Get("Authorization") != "" {
				return authed(ctx, req)
			}
			return handler(ctx, req)
		}
	}
}

// userOperations require a signed-in user.
var userOperations = map[string]bool{
	v1.OperationMovieServiceCreateReview:          true,
	v1.OperationMovieServiceUpdateReview:          true,
	v1.OperationMovieServiceDeleteReview:          true,
	v1.OperationAccountServiceGetProfile:          true,
	v1.OperationAccountServiceEditProfile:         true,
	v1.OperationAccountServiceListMyReviews:       true,
	v1.OperationAccountServiceListMyWatchlist:     true,
	v1.OperationAccountServiceActivityFeed:        true,
	v1.OperationAccountServiceAddToWatchlist:      true,
	v1.OperationAccountServiceRemoveFromWatchlist: true,
}

func userOperation(_ context.Context, operation string) bool {
	return userOperations[operation]
}
