package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/skifa/recipescaler/internal/domain"
)

// Aggregate sums the selected rows. Null cost fields count as zero.
// Cost per serving is zero when desiredServings is not positive.
func Aggregate(lines []domain.CostLine, desiredServings float64) domain.Totals {
	total := decimal.Zero
	used := decimal.Zero
	for _, line := range lines {
		if line.LineTotalCost.Valid {
			total = total.Add(line.LineTotalCost.Decimal)
		}
		if line.CostOfFractionUsed.Valid {
			used = used.Add(line.CostOfFractionUsed.Decimal)
		}
	}

	perServing := decimal.Zero
	if desiredServings > 0 {
		perServing = used.Div(decimal.NewFromFloat(desiredServings)).Round(domain.CurrencyPlaces)
	}

	return domain.Totals{
		TotalCost:      total,
		UsedCost:       used,
		CostPerServing: perServing,
	}
}
