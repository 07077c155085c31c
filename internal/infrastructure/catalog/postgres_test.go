package catalog

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skifa/recipescaler/internal/domain"
)

// Set RECIPESCALER_TEST_DATABASE_URL to run against a disposable database
func TestPostgresRepository_ReplaceAndLoad(t *testing.T) {
	dsn := os.Getenv("RECIPESCALER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RECIPESCALER_TEST_DATABASE_URL not set")
	}

	repo, err := NewPostgresRepository(dsn)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	weight := 0.15
	packaged := []domain.CatalogEntry{
		{Description: "Organic Brown Rice", Size: "1kg", PackSize: 1, TradePrice: decimal.RequireFromString("2.50"), ProductCode: "RIC001"},
		{Description: "Olive Oil", Size: "500ml", PackSize: 6, TradePrice: decimal.RequireFromString("18.00")},
	}
	fresh := []domain.FreshProduceEntry{
		{Description: "Onion", SingleItemWeight: &weight, PricePerItem: decimal.NewNullDecimal(decimal.RequireFromString("0.25"))},
		{Description: "Potatoes", PricePerBaseUnit: decimal.NewNullDecimal(decimal.RequireFromString("1.10"))},
	}

	require.NoError(t, repo.Replace(ctx, packaged, fresh))

	gotPackaged, err := repo.LoadPackaged(ctx)
	require.NoError(t, err)
	require.Len(t, gotPackaged, 2)
	assert.Equal(t, "Organic Brown Rice", gotPackaged[0].Description)
	assert.Equal(t, "RIC001", gotPackaged[0].ProductCode)
	assert.Empty(t, gotPackaged[1].ProductCode)
	assert.True(t, packaged[1].TradePrice.Equal(gotPackaged[1].TradePrice))

	gotFresh, err := repo.LoadFresh(ctx)
	require.NoError(t, err)
	require.Len(t, gotFresh, 2)
	require.NotNil(t, gotFresh[0].SingleItemWeight)
	assert.Equal(t, 0.15, *gotFresh[0].SingleItemWeight)
	assert.True(t, gotFresh[0].PricePerItem.Valid)
	assert.Nil(t, gotFresh[1].SingleItemWeight)
	assert.False(t, gotFresh[1].PricePerItem.Valid)
}
