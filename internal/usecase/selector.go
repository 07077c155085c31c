package usecase

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/skifa/recipescaler/internal/domain"
)

// SelectLines picks one winner per recipe line and builds the output rows.
//
// Fresh produce manual picks win outright and are priced here (their candidates in
// outcome.Fresh are updated in place). Candidates without enough food are never
// selected. Among the rest, manual packaged picks (rank 0) win over any automatic
// match, otherwise the cheapest wins with ties going to the first one encountered. Lines with input but no winner get a "not found" row; blank
// lines produce no row and are counted as skipped.
func SelectLines(lines []domain.RecipeLine, outcome RankOutcome, normalizer *UnitNormalizer) ([]domain.CostLine, domain.Diagnostics) {
	diag := domain.Diagnostics{
		ParseFailed: outcome.ParseFailed,
		Infeasible:  outcome.Infeasible,
	}

	packaged := make(map[int][]*domain.MatchCandidate)
	for i := range outcome.Ranked {
		c := &outcome.Ranked[i]
		packaged[c.OriginIndex] = append(packaged[c.OriginIndex], c)
	}
	fresh := make(map[int]*domain.MatchCandidate)
	for i := range outcome.Fresh {
		c := &outcome.Fresh[i]
		if _, seen := fresh[c.OriginIndex]; !seen {
			fresh[c.OriginIndex] = c
		}
	}

	rows := make([]domain.CostLine, 0, len(lines))
	for _, line := range lines {
		if line.IsBlank() {
			diag.Skipped++
			continue
		}

		if c, ok := fresh[line.OriginIndex]; ok {
			if !priceFreshCandidate(c, normalizer) {
				rows = append(rows, domain.NotFoundLine(line))
				diag.ParseFailed++
				diag.NotFound++
				continue
			}
			rows = append(rows, freshRow(line, c))
			diag.Selected++
			continue
		}

		winner := pickWinner(packaged[line.OriginIndex])
		if winner == nil {
			rows = append(rows, domain.NotFoundLine(line))
			diag.NotFound++
			continue
		}
		rows = append(rows, packagedRow(line, winner))
		diag.Selected++
	}

	slices.SortStableFunc(rows, func(a, b domain.CostLine) int { return a.OriginIndex - b.OriginIndex })
	return rows, diag
}

// pickWinner chooses among the packaged candidates of one line, in encounter order.
// Only enough_food candidates are eligible. Among those a manual candidate (rank 0)
// wins outright, otherwise the lowest rank wins. A line whose manual pick has no
// sufficient multiple gets no winner.
func pickWinner(candidates []*domain.MatchCandidate) *domain.MatchCandidate {
	var best *domain.MatchCandidate
	for _, c := range candidates {
		if !c.EnoughFood || c.PriceRank == nil {
			continue
		}
		if c.ManuallySelected {
			return c
		}
		if best == nil || *c.PriceRank < *best.PriceRank {
			best = c
		}
	}
	return best
}

// priceFreshCandidate prices a fresh produce pick directly: by piece when the line
// has no unit and a per-item price exists, otherwise by normalized weight.
// A fresh purchase is sized to exact need, so the fraction used is always 1.
// Returns false when the quantity is not finite.
func priceFreshCandidate(c *domain.MatchCandidate, normalizer *UnitNormalizer) bool {
	entry := c.Fresh
	required := normalizer.Normalize(c.Amount, c.Unit)
	if !isFinite(required) || !isFinite(c.Amount) {
		c.Status = domain.StatusParseFailed
		return false
	}
	c.RequiredNormalized = required
	c.SuppliedNormalized = c.RequiredNormalized

	if strings.TrimSpace(c.Unit) == "" && entry.PricePerItem.Valid {
		c.LineTotalCost = entry.PricePerItem.Decimal.Mul(decimal.NewFromFloat(c.Amount))
	} else {
		c.LineTotalCost = entry.PricePerBaseUnit.Decimal.Mul(decimal.NewFromFloat(c.RequiredNormalized))
	}
	c.LineTotalCost = c.LineTotalCost.Round(domain.CurrencyPlaces)
	c.CostOfFractionUsed = c.LineTotalCost
	c.FractionUsed = 1
	c.EnoughFood = true
	c.Status = domain.StatusOK
	rank := 0
	c.PriceRank = &rank
	return true
}

func packagedRow(line domain.RecipeLine, c *domain.MatchCandidate) domain.CostLine {
	option := c.Option
	size := option.Size
	supplied := c.SuppliedNormalized
	quantity := option.OrderQuantity
	required := c.RequiredNormalized
	fraction := c.FractionUsed
	enough := c.EnoughFood

	row := domain.CostLine{
		OriginIndex:        line.OriginIndex,
		Ingredient:         line.Ingredient,
		ScaledAmount:       line.ScaledLabel(),
		Description:        option.Description,
		Source:             domain.SourcePackaged,
		Found:              true,
		ManuallySelected:   c.ManuallySelected,
		Size:               &size,
		SizeNormalized:     &supplied,
		UnitPrice:          decimal.NewNullDecimal(option.TradePrice),
		OrderQuantity:      &quantity,
		LineTotalCost:      decimal.NewNullDecimal(c.LineTotalCost),
		RequiredNormalized: &required,
		FractionUsed:       &fraction,
		CostOfFractionUsed: decimal.NewNullDecimal(c.CostOfFractionUsed),
		EnoughFood:         &enough,
	}
	if option.ProductCode != "" {
		code := option.ProductCode
		row.ProductCode = &code
	}
	return row
}

func freshRow(line domain.RecipeLine, c *domain.MatchCandidate) domain.CostLine {
	entry := c.Fresh
	required := c.RequiredNormalized
	fraction := c.FractionUsed
	enough := true

	unitPrice := entry.PricePerBaseUnit.Decimal
	if strings.TrimSpace(c.Unit) == "" && entry.PricePerItem.Valid {
		unitPrice = entry.PricePerItem.Decimal
	}

	return domain.CostLine{
		OriginIndex:        line.OriginIndex,
		Ingredient:         line.Ingredient,
		ScaledAmount:       line.ScaledLabel(),
		Description:        entry.Description,
		Source:             domain.SourceFresh,
		Found:              true,
		ManuallySelected:   true,
		SizeNormalized:     &required,
		UnitPrice:          decimal.NewNullDecimal(unitPrice),
		LineTotalCost:      decimal.NewNullDecimal(c.LineTotalCost),
		RequiredNormalized: &required,
		FractionUsed:       &fraction,
		CostOfFractionUsed: decimal.NewNullDecimal(c.CostOfFractionUsed),
		EnoughFood:         &enough,
	}
}
