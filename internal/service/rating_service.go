package service

import (
	"context"

	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/repository"
)

// RatingService mantiene la media de valoraciones por contenido.
type RatingService struct {
	logger   *zap.Logger
	tx       repository.TxManager
	contents repository.ContentRepository
	metrics  *metrics.Metrics
}

func NewRatingService(logger *zap.Logger, tx repository.TxManager, contents repository.ContentRepository, m *metrics.Metrics) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{logger: logger, tx: tx, contents: contents, metrics: m}
}

// Rate suma una valoración. La fila del contenido queda bloqueada durante la
// lectura y escritura de (media, count).
func (s *RatingService) Rate(ctx context.Context, contentID string, score int) (domain.Content, error) {
	if score < domain.MinRating || score > domain.MaxRating {
		return domain.Content{}, domain.ErrInvalidInput
	}

	var content domain.Content
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		content, err = s.contents.GetByIDForUpdate(ctx, contentID)
		if err != nil {
			return err
		}
		if !content.Approved {
			return domain.ErrNotApproved
		}
		if err := content.ApplyRating(score); err != nil {
			return err
		}
		return s.contents.UpdateRating(ctx, content.ID, content.RatingAvg, content.RatingCount)
	})
	if err != nil {
		return domain.Content{}, err
	}
	s.metrics.RatingApplied()
	s.logger.Debug("content rated",
		zap.String("content_id", content.ID),
		zap.Int("score", score),
		zap.Int("rating_count", content.RatingCount),
	)
	return content, nil
}
