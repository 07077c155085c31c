package domain

import (
	"fmt"
	"strconv"
)

// RecipeLine is one row of recipe input
type RecipeLine struct {
	OriginIndex     int     `json:"origin_index"`
	Ingredient      string  `json:"ingredient"`
	Amount          float64 `json:"amount"`
	Unit            string  `json:"unit"`
	ManualSelection string  `json:"manual_selection,omitempty"` // empty means no manual pick
}

// IsBlank reports whether the line carries no input at all
func (l RecipeLine) IsBlank() bool {
	return l.Ingredient == "" && l.ManualSelection == ""
}

// HasManualSelection reports whether the user picked a catalog entry directly
func (l RecipeLine) HasManualSelection() bool {
	return l.ManualSelection != ""
}

// ScaledLabel renders the scaled amount followed by its unit, e.g. "1.5kg"
func (l RecipeLine) ScaledLabel() string {
	return strconv.FormatFloat(l.Amount, 'f', -1, 64) + l.Unit
}

// CostRequest is the input of one costing pass
type CostRequest struct {
	OriginalServings float64      `json:"original_servings" binding:"required,gt=0"`
	DesiredServings  float64      `json:"desired_servings" binding:"required,gt=0"`
	Verbose          bool         `json:"verbose,omitempty"`
	Lines            []RecipeLine `json:"lines"`
}

// ScalingFactor returns desired / original servings
func (r *CostRequest) ScalingFactor() float64 {
	return r.DesiredServings / r.OriginalServings
}

// Validate checks the request shape before any matching happens
func (r *CostRequest) Validate() error {
	if r.OriginalServings <= 0 || r.DesiredServings <= 0 {
		return fmt.Errorf("%w: servings must be positive (original=%v, desired=%v)",
			ErrInvalidRequest, r.OriginalServings, r.DesiredServings)
	}
	for i, line := range r.Lines {
		if line.Amount < 0 {
			return fmt.Errorf("%w: line %d has negative amount %v", ErrInvalidRequest, i, line.Amount)
		}
	}
	return nil
}
