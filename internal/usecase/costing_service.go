package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skifa/recipescaler/internal/domain"
)

// CostingServiceConfig holds configuration for the costing service
type CostingServiceConfig struct {
	MaxMultiple     int
	UnitConversions map[string]float64
	Verbose         bool
}

// CostingService runs the full scale -> match -> rank -> select -> aggregate pipeline
type CostingService struct {
	catalogs    domain.CatalogProvider
	normalizer  *UnitNormalizer
	logger      *zap.Logger
	maxMultiple int
	verbose     bool
}

// NewCostingService creates a new costing service with dependencies
func NewCostingService(
	catalogs domain.CatalogProvider,
	logger *zap.Logger,
	config CostingServiceConfig,
) *CostingService {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxMultiple := config.MaxMultiple
	if maxMultiple <= 0 {
		maxMultiple = DefaultMaxMultiple
	}

	return &CostingService{
		catalogs:    catalogs,
		normalizer:  NewUnitNormalizer(config.UnitConversions),
		logger:      logger,
		maxMultiple: maxMultiple,
		verbose:     config.Verbose,
	}
}

// Compute costs one recipe against the current catalogs.
// Every call recomputes from scratch; nothing is kept between calls.
func (s *CostingService) Compute(ctx context.Context, request *domain.CostRequest) (*domain.CostReport, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := s.catalogs.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	factor := request.ScalingFactor()
	lines := scaleLines(request.Lines, factor)

	if err := validateSelections(lines, snapshot); err != nil {
		return nil, err
	}

	verbose := s.verbose || request.Verbose
	matcher := NewMatchingService(s.logger, MatchConfig{EnableDebugLogging: verbose})
	options := ExpandCatalog(snapshot.Packaged, s.maxMultiple)

	var candidates []domain.MatchCandidate
	for _, line := range lines {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		candidates = append(candidates, matcher.Match(line, options, snapshot.Fresh)...)
	}

	outcome := RankCandidates(candidates, s.normalizer)
	if verbose {
		s.logger.Debug("[RANK] ranked candidates",
			zap.Int("ranked", len(outcome.Ranked)),
			zap.Int("fresh", len(outcome.Fresh)),
			zap.Int("parse_failed", outcome.ParseFailed),
			zap.Int("infeasible", outcome.Infeasible))
	}

	rows, diagnostics := SelectLines(lines, outcome, s.normalizer)
	totals := Aggregate(rows, request.DesiredServings)

	report := &domain.CostReport{
		RunID:           uuid.NewString(),
		ScalingFactor:   factor,
		DesiredServings: request.DesiredServings,
		Lines:           rows,
		Totals:          totals,
		Diagnostics:     diagnostics,
	}
	if verbose {
		report.Candidates = append(append([]domain.MatchCandidate{}, outcome.Ranked...), outcome.Fresh...)
		for _, row := range rows {
			s.logger.Debug("[SELECT] line",
				zap.Int("origin_index", row.OriginIndex),
				zap.String("description", row.Description),
				zap.Bool("found", row.Found))
		}
	}

	s.logger.Info("recipe costed",
		zap.String("run_id", report.RunID),
		zap.Float64("scaling_factor", factor),
		zap.Int("selected", diagnostics.Selected),
		zap.Int("not_found", diagnostics.NotFound),
		zap.Int("skipped", diagnostics.Skipped),
		zap.String("total_cost", totals.TotalCost.String()))

	return report, nil
}

// scaleLines stamps each line with its position and multiplies its amount by the factor
func scaleLines(lines []domain.RecipeLine, factor float64) []domain.RecipeLine {
	scaled := make([]domain.RecipeLine, len(lines))
	for i, line := range lines {
		line.OriginIndex = i
		line.Amount = line.Amount * factor
		scaled[i] = line
	}
	return scaled
}

// validateSelections rejects manual selections found in neither catalog
func validateSelections(lines []domain.RecipeLine, snapshot *domain.CatalogSnapshot) error {
	var errs []error
	for _, line := range lines {
		if !line.HasManualSelection() {
			continue
		}
		if _, ok := snapshot.FindFresh(line.ManualSelection); ok {
			continue
		}
		if _, ok := snapshot.FindPackaged(line.ManualSelection); ok {
			continue
		}
		errs = append(errs, fmt.Errorf("%w: line %d selects %q", domain.ErrUnknownSelection, line.OriginIndex, line.ManualSelection))
	}
	return errors.Join(errs...)
}
