package usecase

import "github.com/skifa/recipescaler/internal/domain"

// DefaultMaxMultiple is the largest number of packs of one SKU considered for a line
const DefaultMaxMultiple = 5

// ExpandCatalog emits one purchase option per entry per multiple 1..maxMultiple,
// entry-major, so options of the same SKU stay adjacent in ascending multiple order.
func ExpandCatalog(entries []domain.CatalogEntry, maxMultiple int) []domain.PurchaseOption {
	if maxMultiple < 1 {
		maxMultiple = 1
	}

	options := make([]domain.PurchaseOption, 0, len(entries)*maxMultiple)
	for _, entry := range entries {
		for k := 1; k <= maxMultiple; k++ {
			options = append(options, domain.PurchaseOption{
				CatalogEntry:  entry,
				OrderQuantity: k,
			})
		}
	}
	return options
}
