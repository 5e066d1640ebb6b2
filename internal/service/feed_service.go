package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/repository"
)

// FeedService compone el feed en dos fases: primero el contenido de los
// usuarios seguidos y, solo si esa página sale vacía, el ranking de discovery.
type FeedService struct {
	logger   *zap.Logger
	contents repository.ContentRepository
	metrics  *metrics.Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFeedService usa rng para la semilla del desempate de discovery. Con
// rng nil se siembra con el reloj.
func NewFeedService(logger *zap.Logger, contents repository.ContentRepository, rng *rand.Rand, m *metrics.Metrics) *FeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FeedService{logger: logger, contents: contents, metrics: m, rng: rng}
}

// Feed devuelve una página de una sola fase. total cuenta las coincidencias
// de la fase devuelta sin paginar.
func (s *FeedService) Feed(ctx context.Context, viewerID string, limit, offset int) (domain.FeedPage, error) {
	if err := domain.ValidatePage(limit, offset); err != nil {
		return domain.FeedPage{}, err
	}

	items, total, err := s.contents.FollowingPage(ctx, viewerID, limit, offset)
	if err != nil {
		return domain.FeedPage{}, err
	}
	if len(items) > 0 {
		s.metrics.FeedServed(string(domain.FeedFollowing))
		return domain.FeedPage{Items: items, Limit: limit, Offset: offset, Total: total, Source: domain.FeedFollowing}, nil
	}

	seed := s.nextSeed()
	items, total, err = s.contents.DiscoveryPage(ctx, viewerID, seed, limit, offset)
	if err != nil {
		return domain.FeedPage{}, err
	}
	if items == nil {
		items = []domain.Content{}
	}
	s.metrics.FeedServed(string(domain.FeedDiscover))
	s.logger.Debug("discovery feed served",
		zap.String("viewer_id", viewerID),
		zap.Int("items", len(items)),
		zap.Int("total", total),
	)
	return domain.FeedPage{Items: items, Limit: limit, Offset: offset, Total: total, Source: domain.FeedDiscover}, nil
}

func (s *FeedService) nextSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63()
}
