package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skifa/recipescaler/internal/domain"
)

const catalogCacheKey = "catalog:snapshot"

// DefaultFreshMarker is prefixed to fresh produce descriptions so they never
// collide with packaged-goods descriptions
const DefaultFreshMarker = "*"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL    time.Duration
	FreshMarker string
}

// CatalogService loads catalog snapshots from a repository with caching
type CatalogService struct {
	cache       domain.CacheRepository
	repository  domain.CatalogRepository
	logger      *zap.Logger
	cacheTTL    time.Duration
	freshMarker string
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	repository domain.CatalogRepository,
	logger *zap.Logger,
	config CatalogServiceConfig,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	marker := config.FreshMarker
	if marker == "" {
		marker = DefaultFreshMarker
	}

	return &CatalogService{
		cache:       cache,
		repository:  repository,
		logger:      logger,
		cacheTTL:    cacheTTL,
		freshMarker: marker,
	}
}

// Snapshot returns the current catalogs.
// Flow: check cache -> load from repository -> normalize -> cache -> return
func (s *CatalogService) Snapshot(ctx context.Context) (*domain.CatalogSnapshot, error) {
	if cached, err := s.getFromCache(ctx); err == nil && cached != nil {
		return cached, nil
	}

	packaged, err := s.repository.LoadPackaged(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: packaged goods: %v", domain.ErrCatalogUnavailable, err)
	}

	fresh, err := s.repository.LoadFresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fresh produce: %v", domain.ErrCatalogUnavailable, err)
	}

	snapshot := &domain.CatalogSnapshot{
		Packaged: packaged,
		Fresh:    s.normalizeFresh(fresh),
		LoadedAt: time.Now(),
	}

	s.logger.Info("catalog snapshot loaded",
		zap.Int("packaged", len(snapshot.Packaged)),
		zap.Int("fresh", len(snapshot.Fresh)))

	if err := s.setInCache(ctx, snapshot); err != nil {
		// Serving an uncached snapshot is fine
		s.logger.Warn("failed to cache catalog snapshot", zap.Error(err))
	}

	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next call reloads from the repository
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogCacheKey)
}

// Search returns packaged entries whose description contains the term, case-insensitively.
// An empty term returns the whole price list.
func (s *CatalogService) Search(ctx context.Context, term string) ([]domain.CatalogEntry, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	needle := foldCase(strings.TrimSpace(term))
	results := make([]domain.CatalogEntry, 0)
	for _, entry := range snapshot.Packaged {
		if strings.Contains(foldCase(entry.Description), needle) {
			results = append(results, entry)
		}
	}
	return results, nil
}

// Selections lists the unique descriptions a manual selection may take, per catalog
func (s *CatalogService) Selections(ctx context.Context) (packaged []string, fresh []string, err error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return uniqueSorted(snapshot.Packaged, func(e domain.CatalogEntry) string { return e.Description }),
		uniqueSorted(snapshot.Fresh, func(e domain.FreshProduceEntry) string { return e.Description }),
		nil
}

// normalizeFresh derives base-unit prices and applies the fresh marker.
// Entries without any usable price are dropped.
func (s *CatalogService) normalizeFresh(entries []domain.FreshProduceEntry) []domain.FreshProduceEntry {
	normalized := make([]domain.FreshProduceEntry, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Normalize(); err != nil {
			s.logger.Warn("skipping fresh produce entry", zap.Error(err))
			continue
		}
		if !strings.HasPrefix(entry.Description, s.freshMarker) {
			entry.Description = s.freshMarker + entry.Description
		}
		normalized = append(normalized, entry)
	}
	return normalized
}

// getFromCache retrieves the snapshot from cache
func (s *CatalogService) getFromCache(ctx context.Context) (*domain.CatalogSnapshot, error) {
	value, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, err
	}

	if snapshot, ok := value.(*domain.CatalogSnapshot); ok {
		return snapshot, nil
	}

	// Memory and redis caches hand back decoded JSON
	data, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var snapshot domain.CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &snapshot, nil
}

// setInCache stores the snapshot in cache
func (s *CatalogService) setInCache(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	return s.cache.Set(ctx, catalogCacheKey, snapshot, s.cacheTTL)
}

func uniqueSorted[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
