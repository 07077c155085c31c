package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skifa/recipescaler/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func floatPtr(f float64) *float64 {
	return &f
}

func testCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{Description: "Organic Brown Rice 1kg", Size: "1kg", PackSize: 1, TradePrice: dec("2.50"), ProductCode: "RIC001"},
		{Description: "Brown Sugar", Size: "500g", PackSize: 1, TradePrice: dec("1.20")},
		{Description: "Brown Rice Bulk", Size: "5kg", PackSize: 1, TradePrice: dec("9.00"), ProductCode: "RIC005"},
		{Description: "Olive Oil", Size: "500ml", PackSize: 6, TradePrice: dec("18.00")},
		{Description: "Mystery Box", Size: "assorted", PackSize: 1, TradePrice: dec("5.00")},
	}
}

func testFresh() []domain.FreshProduceEntry {
	return []domain.FreshProduceEntry{
		{
			Description:      "*Onion",
			SingleItemWeight: floatPtr(0.15),
			PricePerItem:     decimal.NewNullDecimal(dec("0.25")),
			PricePerBaseUnit: decimal.NewNullDecimal(dec("0.25").Div(dec("0.15"))),
		},
		{Description: "*Potatoes", PricePerBaseUnit: decimal.NewNullDecimal(dec("1.10"))},
	}
}

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockCatalogRepository is a mock implementation of domain.CatalogRepository
type MockCatalogRepository struct {
	packaged     []domain.CatalogEntry
	fresh        []domain.FreshProduceEntry
	packagedErr  error
	freshErr     error
	packagedLoad int
}

func (m *MockCatalogRepository) LoadPackaged(ctx context.Context) ([]domain.CatalogEntry, error) {
	m.packagedLoad++
	if m.packagedErr != nil {
		return nil, m.packagedErr
	}
	return m.packaged, nil
}

func (m *MockCatalogRepository) LoadFresh(ctx context.Context) ([]domain.FreshProduceEntry, error) {
	if m.freshErr != nil {
		return nil, m.freshErr
	}
	return m.fresh, nil
}

// staticCatalogs is a domain.CatalogProvider returning a fixed snapshot
type staticCatalogs struct {
	snapshot *domain.CatalogSnapshot
	err      error
}

func (s *staticCatalogs) Snapshot(ctx context.Context) (*domain.CatalogSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}
