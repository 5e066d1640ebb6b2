package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/repository"
)

// ContentService cubre alta, aprobación y likes de contenido.
type ContentService struct {
	logger   *zap.Logger
	contents repository.ContentRepository
	likes    repository.LikeRepository
	now      func() time.Time
}

func NewContentService(logger *zap.Logger, contents repository.ContentRepository, likes repository.LikeRepository) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		logger:   logger,
		contents: contents,
		likes:    likes,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateContentInput struct {
	MediaType   string  `json:"media_type"`
	MediaURL    string  `json:"media_url"`
	Description string  `json:"creator_description"`
	Category    *string `json:"category"`
}

// Create guarda el contenido sin aprobar; no es visible hasta que un admin lo aprueba.
func (s *ContentService) Create(ctx context.Context, ownerID string, input CreateContentInput) (domain.Content, error) {
	mediaType, err := domain.ParseMediaType(input.MediaType)
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: media_type must be video or image", err)
	}
	mediaURL := strings.TrimSpace(input.MediaURL)
	if u, err := url.Parse(mediaURL); err != nil || mediaURL == "" || u.Scheme == "" {
		return domain.Content{}, fmt.Errorf("%w: media_url", domain.ErrInvalidInput)
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return domain.Content{}, fmt.Errorf("%w: creator_description is required", domain.ErrInvalidInput)
	}
	var category *string
	if c := trimOptional(input.Category); c != nil {
		normalized := domain.NormalizeCategory(*c)
		category = &normalized
	}

	owner := ownerID
	content := domain.Content{
		ID:               uuid.NewString(),
		OwnerID:          &owner,
		MediaType:        mediaType,
		MediaURL:         mediaURL,
		Description:      description,
		Category:         category,
		GrowthIndex:      domain.DefaultGrowthIndex,
		GrowthPercentage: domain.DefaultGrowthPercentage,
		CreatedAt:        s.now(),
	}
	if err := s.contents.Create(ctx, content); err != nil {
		return domain.Content{}, err
	}
	return content, nil
}

// List es la vista de admin; approved nil devuelve todo.
func (s *ContentService) List(ctx context.Context, approved *bool) ([]domain.Content, error) {
	return nonNil(s.contents.List(ctx, approved))
}

func (s *ContentService) Approve(ctx context.Context, contentID string) (domain.Content, error) {
	if err := s.contents.SetApproved(ctx, contentID, true); err != nil {
		return domain.Content{}, err
	}
	s.logger.Info("content approved", zap.String("content_id", contentID))
	return s.contents.GetByID(ctx, contentID)
}

// Like registra un like sobre contenido aprobado. Un segundo like del mismo
// usuario es ErrConflict.
func (s *ContentService) Like(ctx context.Context, userID, contentID string) error {
	content, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return err
	}
	if !content.Approved {
		return domain.ErrNotApproved
	}
	return s.likes.Create(ctx, domain.Like{UserID: userID, ContentID: content.ID, CreatedAt: s.now()})
}

func (s *ContentService) Unlike(ctx context.Context, userID, contentID string) error {
	return s.likes.Delete(ctx, userID, contentID)
}
