package usecase

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/skifa/recipescaler/internal/domain"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchingService finds the candidate purchase options for a recipe line
type MatchingService struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(logger *zap.Logger, config MatchConfig) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{
		logger:             logger,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Match returns the candidates for one recipe line.
//
//   - blank line: no candidates
//   - no manual selection: every option whose description contains all tokens of the ingredient name
//   - manual selection of a fresh produce entry: exactly one fresh candidate
//   - manual selection of a packaged entry: all multiples of that entry
//
// A manual selection found in neither catalog yields no candidates; callers
// are expected to reject such lines before matching.
func (s *MatchingService) Match(
	line domain.RecipeLine,
	options []domain.PurchaseOption,
	fresh []domain.FreshProduceEntry,
) []domain.MatchCandidate {
	if line.IsBlank() {
		return nil
	}

	if line.HasManualSelection() {
		return s.matchManual(line, options, fresh)
	}

	tokens := tokenize(line.Ingredient)
	if s.enableDebugLogging {
		s.logger.Debug("[MATCH] fuzzy search",
			zap.Int("origin_index", line.OriginIndex),
			zap.String("ingredient", line.Ingredient),
			zap.Strings("tokens", tokens))
	}

	var candidates []domain.MatchCandidate
	lastDescription, lastFolded := "", ""
	for i := range options {
		description := options[i].Description
		if description != lastDescription || i == 0 {
			lastDescription, lastFolded = description, foldCase(description)
		}
		if !containsAllTokens(lastFolded, tokens) {
			continue
		}
		option := options[i]
		candidates = append(candidates, newCandidate(line, false, domain.SourcePackaged, &option, nil))
	}

	if s.enableDebugLogging {
		s.logger.Debug("[MATCH] fuzzy result",
			zap.Int("origin_index", line.OriginIndex),
			zap.Int("candidates", len(candidates)))
	}

	return candidates
}

// matchManual resolves a manual selection against the fresh catalog first, then the packaged one
func (s *MatchingService) matchManual(
	line domain.RecipeLine,
	options []domain.PurchaseOption,
	fresh []domain.FreshProduceEntry,
) []domain.MatchCandidate {
	for i := range fresh {
		if fresh[i].Description == line.ManualSelection {
			entry := fresh[i]
			if s.enableDebugLogging {
				s.logger.Debug("[MATCH] manual fresh produce",
					zap.Int("origin_index", line.OriginIndex),
					zap.String("selection", line.ManualSelection))
			}
			return []domain.MatchCandidate{newCandidate(line, true, domain.SourceFresh, nil, &entry)}
		}
	}

	var candidates []domain.MatchCandidate
	for i := range options {
		if options[i].Description != line.ManualSelection {
			continue
		}
		option := options[i]
		candidates = append(candidates, newCandidate(line, true, domain.SourcePackaged, &option, nil))
	}

	if s.enableDebugLogging {
		s.logger.Debug("[MATCH] manual packaged",
			zap.Int("origin_index", line.OriginIndex),
			zap.String("selection", line.ManualSelection),
			zap.Int("candidates", len(candidates)))
	}

	return candidates
}

func newCandidate(
	line domain.RecipeLine,
	manual bool,
	source domain.CandidateSource,
	option *domain.PurchaseOption,
	fresh *domain.FreshProduceEntry,
) domain.MatchCandidate {
	return domain.MatchCandidate{
		OriginIndex:      line.OriginIndex,
		Ingredient:       line.Ingredient,
		Amount:           line.Amount,
		Unit:             line.Unit,
		ManuallySelected: manual,
		Source:           source,
		Option:           option,
		Fresh:            fresh,
	}
}

// tokenize splits an ingredient name on whitespace into case-folded tokens.
// Tokens are literal text: punctuation is kept and matched as-is.
func tokenize(s string) []string {
	return strings.Fields(foldCase(s))
}

// containsAllTokens is the order-independent AND of substring tests.
// An empty token list matches everything.
func containsAllTokens(folded string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(folded, token) {
			return false
		}
	}
	return true
}

// foldCase applies Unicode case folding for case-insensitive comparison
func foldCase(s string) string {
	return cases.Fold().String(s)
}
