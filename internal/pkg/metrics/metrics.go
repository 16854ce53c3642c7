// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewWritesTotal counts review writes by operation (create, update, delete) and outcome.
	ReviewWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_review_writes_total",
			Help: "Total number of review writes",
		},
		[]string{"operation", "outcome"},
	)

	// RatingRecomputesTotal counts average rating recomputations.
	RatingRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviehub_rating_recomputes_total",
			Help: "Total number of movie average rating recomputations",
		},
	)

	// WatchlistChangesTotal counts watchlist mutations by operation and outcome.
	WatchlistChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_watchlist_changes_total",
			Help: "Total number of watchlist add and remove calls",
		},
		[]string{"operation", "outcome"},
	)

	// MetadataLookupsTotal counts metadata API lookups by outcome.
	MetadataLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_metadata_lookups_total",
			Help: "Total number of movie metadata lookups",
		},
		[]string{"outcome"},
	)

	// CacheRequestsTotal counts redis cache reads by result (hit, miss).
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_cache_requests_total",
			Help: "Total number of movie cache lookups",
		},
		[]string{"result"},
	)
)
