package recommendation

import (
	"context"
	"fmt"

	"myStorefront/domain"
	"myStorefront/pkg/logger"
)

// TrackClick appends a click on a recommended product to the click log. The
// log is feedback only; it never feeds back into scores.
func (s *Service) TrackClick(ctx context.Context, click domain.RecommendationClick) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	click.ID = 0
	if click.CreatedAt.IsZero() {
		click.CreatedAt = s.now()
	}

	if err := s.clicks.Create(ctx, &click); err != nil {
		return fmt.Errorf("failed to save recommendation click: %w", err)
	}

	logger.Debug("recommend_click",
		"trace_id", TraceIDFromContext(ctx),
		"product_id", click.ProductID,
		"algorithm", click.Algorithm,
		"section_type", click.SectionType,
		"position", click.Position,
	)
	RecommendationClicksTotal.WithLabelValues(click.Algorithm, click.SectionType).Inc()

	return nil
}
