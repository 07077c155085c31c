package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownSelection is returned when a manual selection matches neither catalog
	ErrUnknownSelection = errors.New("manual selection not found in any catalog")

	// ErrCatalogUnavailable is returned when no catalog snapshot can be loaded
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrCatalogNotFound is returned when a catalog source has no data
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrPriceFeedFailure is returned when the supplier price feed request fails
	ErrPriceFeedFailure = errors.New("price feed request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
