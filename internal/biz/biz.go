package biz

import "github.com/google/wire"

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewMovieUseCase,
	NewRatingAggregator,
	NewReviewUseCase,
	NewWatchlistUseCase,
	NewActivityComposer,
	NewUserUseCase,
	NewProfileUseCase,
)

// Listing sizes.
const (
	MoviePageSize         = 10
	GenrePageSize         = 4
	ActivityPageSize      = 4
	ProfileReviewPageSize = 3
	HomeShelfSize         = 8
	RecommendationCount   = 6
	MaxTopRated           = 50
)
