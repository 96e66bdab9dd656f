package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pageza/whatnext/backend/internal/types"
)

// RecommendationService chains history, prompt, generation and parsing for one request
type RecommendationService struct {
	history   IHistoryAggregator
	generator IGenerationClient
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(history IHistoryAggregator, generator IGenerationClient) *RecommendationService {
	return &RecommendationService{
		history:   history,
		generator: generator,
	}
}

// Recommend produces one recommendation from the caller's recent meals.
// The generator is not called when the history is empty.
func (s *RecommendationService) Recommend(ctx context.Context, identity *types.Identity) (*types.Recommendation, error) {
	entries, err := s.history.ForRecommendation(ctx, identity)
	if err != nil {
		return nil, err
	}

	prompt := ComposePrompt(entries)

	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed := ParseOutput(raw)
	log.Info().
		Str("user_id", identity.UserID.String()).
		Int("history", len(entries)).
		Str("contract", parsed.Contract.String()).
		Dur("latency", time.Since(start)).
		Msg("recommendation generated")

	rec := parsed.Recommendation
	return &rec, nil
}
