package domain

import "github.com/shopspring/decimal"

// NotFoundDescription is the description of the placeholder row for unmatched lines
const NotFoundDescription = "Ingredient not found"

// CurrencyPlaces is the fixed precision derived currency figures are rounded to
const CurrencyPlaces int32 = 4

// CandidateSource tells which catalog a candidate came from
type CandidateSource string

const (
	SourcePackaged CandidateSource = "packaged"
	SourceFresh    CandidateSource = "fresh"
)

// CandidateStatus is the tagged outcome of evaluating one candidate
type CandidateStatus string

const (
	StatusOK          CandidateStatus = "ok"
	StatusInfeasible  CandidateStatus = "infeasible"
	StatusParseFailed CandidateStatus = "parse_failed"
)

// MatchCandidate is a purchase option or fresh produce entry bound to one recipe line.
// Derived fields are filled in by the ranking stage.
type MatchCandidate struct {
	OriginIndex      int                `json:"origin_index"`
	Ingredient       string             `json:"ingredient"`
	Amount           float64            `json:"amount"` // already scaled
	Unit             string             `json:"unit"`
	ManuallySelected bool               `json:"manually_selected"`
	Source           CandidateSource    `json:"source"`
	Option           *PurchaseOption    `json:"option,omitempty"`
	Fresh            *FreshProduceEntry `json:"fresh,omitempty"`

	Status             CandidateStatus `json:"status,omitempty"`
	RequiredNormalized float64         `json:"required_amount_normalized"`
	SuppliedNormalized float64         `json:"supplied_amount_normalized"`
	EnoughFood         bool            `json:"enough_food"`
	LineTotalCost      decimal.Decimal `json:"line_total_cost"`
	FractionUsed       float64         `json:"fraction_used"`
	CostOfFractionUsed decimal.Decimal `json:"cost_of_fraction_used"`
	PriceRank          *int            `json:"price_rank"`
}

// Description returns the catalog description the candidate is bound to
func (c *MatchCandidate) Description() string {
	switch {
	case c.Option != nil:
		return c.Option.Description
	case c.Fresh != nil:
		return c.Fresh.Description
	}
	return ""
}

// CostLine is one output row per recipe line
type CostLine struct {
	OriginIndex        int                 `json:"origin_index"`
	Ingredient         string              `json:"ingredient"`
	ScaledAmount       string              `json:"scaled_amount"`
	Description        string              `json:"description"`
	Source             CandidateSource     `json:"source,omitempty"`
	Found              bool                `json:"found"`
	ManuallySelected   bool                `json:"manually_selected"`
	Size               *string             `json:"size"`
	SizeNormalized     *float64            `json:"size_normalized"`
	UnitPrice          decimal.NullDecimal `json:"unit_price"`
	OrderQuantity      *int                `json:"order_quantity"`
	LineTotalCost      decimal.NullDecimal `json:"line_total_cost"`
	RequiredNormalized *float64            `json:"required_amount_normalized"`
	FractionUsed       *float64            `json:"fraction_used"`
	CostOfFractionUsed decimal.NullDecimal `json:"cost_of_fraction_used"`
	EnoughFood         *bool               `json:"enough_food"`
	ProductCode        *string             `json:"product_code"`
}

// NotFoundLine builds the placeholder row for a line with input but no winner
func NotFoundLine(line RecipeLine) CostLine {
	return CostLine{
		OriginIndex:  line.OriginIndex,
		Ingredient:   line.Ingredient,
		ScaledAmount: line.ScaledLabel(),
		Description:  NotFoundDescription,
	}
}

// Totals holds the aggregate cost figures
type Totals struct {
	TotalCost      decimal.Decimal `json:"total_cost"`
	UsedCost       decimal.Decimal `json:"used_cost"`
	CostPerServing decimal.Decimal `json:"cost_per_serving"`
}

// Diagnostics tallies the tagged outcomes of one pass
type Diagnostics struct {
	Selected    int `json:"selected"`
	NotFound    int `json:"not_found"`
	Skipped     int `json:"skipped"`
	ParseFailed int `json:"parse_failed"`
	Infeasible  int `json:"infeasible"`
}

// CostReport is the full output of one costing pass
type CostReport struct {
	RunID           string           `json:"run_id"`
	ScalingFactor   float64          `json:"scaling_factor"`
	DesiredServings float64          `json:"desired_servings"`
	Lines           []CostLine       `json:"lines"`
	Totals          Totals           `json:"totals"`
	Diagnostics     Diagnostics      `json:"diagnostics"`
	Candidates      []MatchCandidate `json:"candidates,omitempty"` // only in verbose mode
}
