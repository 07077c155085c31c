package usecase

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/skifa/recipescaler/internal/domain"
)

// Pack-size patterns: the first run of digits (with optional decimal part)
// is the magnitude, the first run of letters is the unit symbol.
var (
	packMagnitudeRegex = regexp.MustCompile(`\d+\.?\d*`)
	packUnitRegex      = regexp.MustCompile(`[a-zA-Z]+`)
)

// RankOutcome is the result of the feasibility and cost ranking stage
type RankOutcome struct {
	Ranked      []domain.MatchCandidate // packaged candidates that survived parsing
	Fresh       []domain.MatchCandidate // fresh produce candidates, passed through unranked
	ParseFailed int
	Infeasible  int
}

// parsePackSize extracts magnitude and unit symbol from a size such as "500g" or "2 x 1.5L".
// ok is false when the size holds no digits.
func parsePackSize(size string) (magnitude float64, unit string, ok bool) {
	number := packMagnitudeRegex.FindString(size)
	if number == "" {
		return 0, "", false
	}
	magnitude, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, "", false
	}
	return magnitude, packUnitRegex.FindString(size), true
}

// RankCandidates computes feasibility and cost fields for packaged candidates
// and ranks them by line total cost within each (origin index, enough food) partition.
// Tied costs share the lowest rank ("min" semantics). Infeasible candidates lose their
// rank; manually selected candidates are forced to rank 0.
func RankCandidates(candidates []domain.MatchCandidate, normalizer *UnitNormalizer) RankOutcome {
	var outcome RankOutcome

	for _, c := range candidates {
		if c.Source == domain.SourceFresh {
			outcome.Fresh = append(outcome.Fresh, c)
			continue
		}
		if !evaluateCandidate(&c, normalizer) {
			outcome.ParseFailed++
			continue
		}
		if !c.EnoughFood {
			outcome.Infeasible++
		}
		outcome.Ranked = append(outcome.Ranked, c)
	}

	assignPriceRanks(outcome.Ranked)
	return outcome
}

// evaluateCandidate fills the derived quantity and cost fields of one packaged candidate.
// Returns false when the pack size cannot be used or the quantities are not finite.
func evaluateCandidate(c *domain.MatchCandidate, normalizer *UnitNormalizer) bool {
	option := c.Option
	if option == nil {
		c.Status = domain.StatusParseFailed
		return false
	}

	magnitude, symbol, ok := parsePackSize(option.Size)
	if !ok || magnitude <= 0 {
		c.Status = domain.StatusParseFailed
		return false
	}

	packSize := option.PackSize
	if packSize < 1 {
		packSize = 1
	}
	quantity := decimal.NewFromInt(int64(option.OrderQuantity))

	supplied := magnitude * float64(packSize) * normalizer.Multiplier(symbol) * float64(option.OrderQuantity)
	required := normalizer.Normalize(c.Amount, c.Unit)
	if !isFinite(supplied) || supplied <= 0 || !isFinite(required) || !isFinite(required/supplied) {
		c.Status = domain.StatusParseFailed
		return false
	}

	c.SuppliedNormalized = supplied
	c.RequiredNormalized = required
	c.EnoughFood = c.SuppliedNormalized >= c.RequiredNormalized
	c.LineTotalCost = option.TradePrice.Mul(quantity)
	c.FractionUsed = c.RequiredNormalized / c.SuppliedNormalized
	c.CostOfFractionUsed = decimal.NewFromFloat(c.FractionUsed).
		Mul(option.TradePrice).
		Mul(quantity).
		Round(domain.CurrencyPlaces)

	if c.EnoughFood {
		c.Status = domain.StatusOK
	} else {
		c.Status = domain.StatusInfeasible
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

type rankPartition struct {
	originIndex int
	enoughFood  bool
}

// assignPriceRanks sets PriceRank in place
func assignPriceRanks(candidates []domain.MatchCandidate) {
	costs := make(map[rankPartition][]decimal.Decimal)
	for _, c := range candidates {
		key := rankPartition{c.OriginIndex, c.EnoughFood}
		costs[key] = append(costs[key], c.LineTotalCost)
	}
	for _, sorted := range costs {
		slices.SortFunc(sorted, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	}

	for i := range candidates {
		c := &candidates[i]
		switch {
		case c.ManuallySelected:
			rank := 0
			c.PriceRank = &rank
		case !c.EnoughFood:
			c.PriceRank = nil
		default:
			sorted := costs[rankPartition{c.OriginIndex, c.EnoughFood}]
			cheaper := sort.Search(len(sorted), func(j int) bool {
				return sorted[j].GreaterThanOrEqual(c.LineTotalCost)
			})
			rank := cheaper + 1
			c.PriceRank = &rank
		}
	}
}
