package usecase

import (
	"math"
	"strings"
)

// baseUnitConversions maps unit symbols to multipliers relative to kg / l.
// Mass and volume share one numeric space (1 kg is treated as 1 l).
var baseUnitConversions = map[string]float64{
	"kg": 1,
	"g":  0.001,
	"ml": 0.001,
	"l":  1,
	"lt": 1,
}

// UnitNormalizer converts (amount, unit) pairs into base quantities
type UnitNormalizer struct {
	multipliers map[string]float64
}

// NewUnitNormalizer creates a normalizer from the base table plus extra symbols.
// Extra entries override base entries with the same symbol. Entries that are not
// positive and finite are ignored.
func NewUnitNormalizer(extra map[string]float64) *UnitNormalizer {
	multipliers := make(map[string]float64, len(baseUnitConversions)+len(extra))
	for unit, m := range baseUnitConversions {
		multipliers[unit] = m
	}
	for unit, m := range extra {
		if m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
			continue
		}
		multipliers[normalizeUnitSymbol(unit)] = m
	}
	return &UnitNormalizer{multipliers: multipliers}
}

// Multiplier returns the conversion factor for a unit symbol.
// Unknown or empty symbols pass through with a multiplier of 1.
func (n *UnitNormalizer) Multiplier(unit string) float64 {
	if m, ok := n.multipliers[normalizeUnitSymbol(unit)]; ok {
		return m
	}
	return 1
}

// Normalize converts an amount in the given unit to the base unit
func (n *UnitNormalizer) Normalize(amount float64, unit string) float64 {
	return amount * n.Multiplier(unit)
}

// Known reports whether the symbol is in the conversion table
func (n *UnitNormalizer) Known(unit string) bool {
	_, ok := n.multipliers[normalizeUnitSymbol(unit)]
	return ok
}

func normalizeUnitSymbol(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
