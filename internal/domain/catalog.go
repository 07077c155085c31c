package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogEntry is one packaged-goods SKU from the supplier price list
type CatalogEntry struct {
	Description string          `json:"description" db:"description"`
	Size        string          `json:"size" db:"size"`           // pack size, e.g. "500g"
	PackSize    int             `json:"pack_size" db:"pack_size"` // units per pack
	TradePrice  decimal.Decimal `json:"trade_price" db:"trade_price"`
	ProductCode string          `json:"product_code,omitempty" db:"product_code"`
}

// PurchaseOption represents buying OrderQuantity packs of one SKU
type PurchaseOption struct {
	CatalogEntry
	OrderQuantity int `json:"order_quantity"`
}

// FreshProduceEntry is an item priced by weight or by piece.
// Exactly one pricing mode applies; Normalize derives PricePerBaseUnit
// from the per-item form when only that form is given.
type FreshProduceEntry struct {
	Description      string              `json:"description" db:"description"`
	SingleItemWeight *float64            `json:"single_weight_kg,omitempty" db:"single_weight_kg"`
	PricePerItem     decimal.NullDecimal `json:"each_price_pounds" db:"each_price_pounds"`
	PricePerBaseUnit decimal.NullDecimal `json:"price_per_kg" db:"price_per_kg"`
}

// Normalize fills PricePerBaseUnit from the per-item price and weight when it is absent.
// A given base price, zero included, is kept as is.
func (f *FreshProduceEntry) Normalize() error {
	if f.PricePerBaseUnit.Valid {
		return nil
	}
	if !f.PricePerItem.Valid || f.SingleItemWeight == nil || *f.SingleItemWeight <= 0 {
		return fmt.Errorf("%w: fresh produce %q has no usable price", ErrInvalidRequest, f.Description)
	}
	f.PricePerBaseUnit = decimal.NewNullDecimal(f.PricePerItem.Decimal.Div(decimal.NewFromFloat(*f.SingleItemWeight)))
	return nil
}

// CatalogSnapshot is the read-only catalog input of one computation pass
type CatalogSnapshot struct {
	Packaged []CatalogEntry      `json:"packaged"`
	Fresh    []FreshProduceEntry `json:"fresh"`
	LoadedAt time.Time           `json:"loadedAt"`
}

// FindFresh returns the fresh produce entry with exactly the given description
func (s *CatalogSnapshot) FindFresh(description string) (*FreshProduceEntry, bool) {
	for i := range s.Fresh {
		if s.Fresh[i].Description == description {
			return &s.Fresh[i], true
		}
	}
	return nil, false
}

// FindPackaged returns the packaged entry with exactly the given description
func (s *CatalogSnapshot) FindPackaged(description string) (*CatalogEntry, bool) {
	for i := range s.Packaged {
		if s.Packaged[i].Description == description {
			return &s.Packaged[i], true
		}
	}
	return nil, false
}
