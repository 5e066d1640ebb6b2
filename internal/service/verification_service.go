package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/repository"
)

// VerificationService gestiona el upgrade a creator y la revisión manual de
// categorías sensibles.
type VerificationService struct {
	logger        *zap.Logger
	tx            repository.TxManager
	users         repository.UserRepository
	verifications repository.VerificationRepository
	sensitive     map[string]struct{}
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewVerificationService(
	logger *zap.Logger,
	tx repository.TxManager,
	users repository.UserRepository,
	verifications repository.VerificationRepository,
	sensitiveCategories []string,
	m *metrics.Metrics,
) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	sensitive := make(map[string]struct{}, len(sensitiveCategories))
	for _, c := range sensitiveCategories {
		if c = domain.NormalizeCategory(c); c != "" {
			sensitive[c] = struct{}{}
		}
	}
	return &VerificationService{
		logger:        logger,
		tx:            tx,
		users:         users,
		verifications: verifications,
		sensitive:     sensitive,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type SubmitInput struct {
	Category             string  `json:"category"`
	DegreeTitle          string  `json:"degree_title"`
	ProfessionalRegister *string `json:"professional_register"`
}

// SubmitResult lleva el usuario actualizado y, solo en categorías
// sensibles, la solicitud pendiente creada.
type SubmitResult struct {
	User         domain.User
	Verification *domain.VerificationRequest
}

func (s *VerificationService) IsSensitive(category string) bool {
	_, ok := s.sensitive[domain.NormalizeCategory(category)]
	return ok
}

// SensitiveCategories devuelve las categorías configuradas, sin orden.
func (s *VerificationService) SensitiveCategories() []string {
	out := make([]string, 0, len(s.sensitive))
	for c := range s.sensitive {
		out = append(out, c)
	}
	return out
}

// Submit promueve al usuario a creator. En categorías sensibles queda sin
// verificar y se abre una solicitud pendiente.
func (s *VerificationService) Submit(ctx context.Context, userID string, input SubmitInput) (SubmitResult, error) {
	category := domain.NormalizeCategory(input.Category)
	if category == "" {
		return SubmitResult{}, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	sensitive := s.IsSensitive(category)
	degree := strings.TrimSpace(input.DegreeTitle)
	if sensitive && degree == "" {
		return SubmitResult{}, fmt.Errorf("%w: degree_title is required for %s", domain.ErrInvalidInput, category)
	}

	var result SubmitResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user.IsCreator {
			return domain.ErrAlreadyCreator
		}

		user.PromoteToCreator(!sensitive)
		if sensitive {
			req := domain.VerificationRequest{
				ID:                   uuid.NewString(),
				UserID:               user.ID,
				Category:             category,
				DegreeTitle:          degree,
				ProfessionalRegister: trimOptional(input.ProfessionalRegister),
				Status:               domain.VerificationPending,
				CreatedAt:            s.now(),
			}
			if err := s.verifications.Create(ctx, req); err != nil {
				return err
			}
			result.Verification = &req
		}
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		result.User = user
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	status := domain.VerificationVerified
	if result.Verification != nil {
		status = domain.VerificationPending
	}
	s.metrics.VerificationOutcome(string(status))
	s.logger.Info("creator upgrade submitted",
		zap.String("user_id", userID),
		zap.String("category", category),
		zap.String("status", string(status)),
	)
	return result, nil
}

// Approve pasa una solicitud pendiente a verified y marca al usuario como
// creator verificado.
func (s *VerificationService) Approve(ctx context.Context, requestID string) (domain.VerificationRequest, error) {
	return s.review(ctx, requestID, func(v *domain.VerificationRequest) error {
		return v.Approve(s.now())
	})
}

// Reject pasa una solicitud pendiente a rejected; el usuario pierde el estado
// de creator.
func (s *VerificationService) Reject(ctx context.Context, requestID, adminNote string) (domain.VerificationRequest, error) {
	if err := domain.ValidateAdminNote(adminNote); err != nil {
		return domain.VerificationRequest{}, fmt.Errorf("%w: admin_note must be %d-%d characters",
			err, domain.MinAdminNoteLength, domain.MaxAdminNoteLength)
	}
	return s.review(ctx, requestID, func(v *domain.VerificationRequest) error {
		return v.Reject(adminNote, s.now())
	})
}

func (s *VerificationService) review(ctx context.Context, requestID string, transition func(*domain.VerificationRequest) error) (domain.VerificationRequest, error) {
	var req domain.VerificationRequest
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.verifications.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := transition(&req); err != nil {
			return err
		}
		user, err := s.users.GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: verification owner", domain.ErrNotFound)
			}
			return err
		}
		user.SyncCreatorFlags(req.Status)
		if err := s.verifications.UpdateReview(ctx, req); err != nil {
			return err
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	s.metrics.VerificationOutcome(string(req.Status))
	s.logger.Info("creator verification reviewed",
		zap.String("verification_id", req.ID),
		zap.String("user_id", req.UserID),
		zap.String("status", string(req.Status)),
	)
	return req, nil
}

func (s *VerificationService) List(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error) {
	items, err := s.verifications.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.VerificationRequest{}
	}
	return items, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
