package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/repository"
)

// CommentService publica comentarios con el veredicto del scorer fijado en
// la creación.
type CommentService struct {
	logger   *zap.Logger
	comments repository.CommentRepository
	contents repository.ContentRepository
	scorer   *ModerationScorer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewCommentService(
	logger *zap.Logger,
	comments repository.CommentRepository,
	contents repository.ContentRepository,
	scorer *ModerationScorer,
	m *metrics.Metrics,
) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		logger:   logger,
		comments: comments,
		contents: contents,
		scorer:   scorer,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateCommentInput struct {
	Text     string  `json:"text"`
	ParentID *string `json:"parent_id"`
}

// Create valida contenido y padre y guarda el comentario. El padre debe
// existir antes y pertenecer al mismo contenido, así el árbol no admite ciclos.
func (s *CommentService) Create(ctx context.Context, authorID, contentID string, input CreateCommentInput) (domain.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if n := utf8.RuneCountInString(text); n == 0 || n > domain.MaxCommentLength {
		return domain.Comment{}, fmt.Errorf("%w: text must be 1-%d characters", domain.ErrInvalidInput, domain.MaxCommentLength)
	}

	content, err := s.contents.GetByID(ctx, contentID)
	if err != nil {
		return domain.Comment{}, err
	}
	if !content.Approved {
		return domain.Comment{}, domain.ErrNotApproved
	}

	parentID := trimOptional(input.ParentID)
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Comment{}, fmt.Errorf("%w: parent comment not found", domain.ErrInvalidInput)
			}
			return domain.Comment{}, err
		}
		if parent.ContentID != content.ID {
			return domain.Comment{}, fmt.Errorf("%w: parent comment belongs to another content", domain.ErrInvalidInput)
		}
	}

	verdict := s.scorer.Score(text)
	comment := domain.Comment{
		ID:              uuid.NewString(),
		ContentID:       content.ID,
		AuthorID:        authorID,
		Body:            text,
		ParentID:        parentID,
		IsApproved:      verdict.Approved,
		IsFlagged:       verdict.Flagged,
		ModerationScore: verdict.Score,
		ModerationNote:  verdict.Note,
		CreatedAt:       s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, err
	}
	s.metrics.ModerationVerdict(verdict.Note)
	if verdict.Flagged {
		s.logger.Info("comment flagged",
			zap.String("comment_id", comment.ID),
			zap.String("content_id", comment.ContentID),
			zap.Int("score", verdict.Score),
			zap.String("note", verdict.Note),
		)
	}
	return comment, nil
}

// ListApproved devuelve los comentarios visibles de un contenido, del más antiguo al más reciente.
func (s *CommentService) ListApproved(ctx context.Context, contentID string) ([]domain.Comment, error) {
	return nonNil(s.comments.ListApprovedByContent(ctx, contentID))
}

func (s *CommentService) ListForReview(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, error) {
	return nonNil(s.comments.ListByFilter(ctx, filter))
}

// Review es el override de un admin; no modifica score ni nota.
func (s *CommentService) Review(ctx context.Context, commentID string, approve bool) (domain.Comment, error) {
	comment, err := s.comments.SetReview(ctx, commentID, approve, !approve)
	if err != nil {
		return domain.Comment{}, err
	}
	s.logger.Info("comment reviewed",
		zap.String("comment_id", comment.ID),
		zap.Bool("approved", approve),
	)
	return comment, nil
}

func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
