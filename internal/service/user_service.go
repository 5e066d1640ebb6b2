package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/repository"
)

const (
	maxDisplayNameLength = 50
	maxBioLength         = 160
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger        *zap.Logger
	tx            repository.TxManager
	users         repository.UserRepository
	follows       repository.FollowRepository
	verifications repository.VerificationRepository
	sessions      *SessionService
	now           func() time.Time
}

func NewUserService(
	logger *zap.Logger,
	tx repository.TxManager,
	users repository.UserRepository,
	follows repository.FollowRepository,
	verifications repository.VerificationRepository,
	sessions *SessionService,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger:        logger,
		tx:            tx,
		users:         users,
		follows:       follows,
		verifications: verifications,
		sessions:      sessions,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Profile es la vista de un usuario con contadores sociales y el estado de
// su verificación, si existe.
type Profile struct {
	domain.User
	domain.SocialCounts
	CreatorVerification *VerificationSummary `json:"creator_verification"`
}

type VerificationSummary struct {
	Category             string                    `json:"category"`
	DegreeTitle          string                    `json:"degree_title"`
	ProfessionalRegister *string                   `json:"professional_register"`
	Status               domain.VerificationStatus `json:"status"`
}

type UserStats struct {
	UserID   string  `json:"user_id"`
	Username *string `json:"username"`
	domain.SocialCounts
}

// ResolveSession valida el token y lo resuelve a un usuario activo.
func (s *UserService) ResolveSession(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(claims.Subject))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidToken
		}
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, domain.ErrInactiveUser
	}
	return user, nil
}

// DevProvision resuelve el sujeto declarado en modo de confianza: lo crea si
// no existe y sincroniza el rol pedido. Un creator que pide rol estándar
// conserva su rol de creator.
func (s *UserService) DevProvision(ctx context.Context, emailAddr, roleHint string) (domain.User, error) {
	emailAddr = domain.NormalizeEmail(emailAddr)
	if !isPlausibleEmail(emailAddr) {
		return domain.User{}, fmt.Errorf("%w: email", domain.ErrInvalidInput)
	}
	role := domain.RoleFromHint(roleHint)

	var user domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByEmail(ctx, emailAddr)
		if errors.Is(err, domain.ErrNotFound) {
			user = newStandardUser(emailAddr, role, s.now())
			return s.users.Create(ctx, user)
		}
		if err != nil {
			return err
		}
		if !user.IsActive {
			return domain.ErrInactiveUser
		}
		target := role
		if role == domain.RoleStandard && user.Role == domain.RoleCreator {
			target = domain.RoleCreator
		}
		if user.Role == target {
			return nil
		}
		user.Role = target
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("dev bypass subject resolved",
		zap.String("email", emailAddr),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *UserService) Me(ctx context.Context, user domain.User) (Profile, error) {
	return s.buildProfile(ctx, user)
}

type UpdateProfileInput struct {
	Handle          *string `json:"username"`
	DisplayName     *string `json:"display_name"`
	Bio             *string `json:"bio_description"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// UpdateProfile aplica solo los campos presentes.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (Profile, error) {
	if err := validateProfileInput(input); err != nil {
		return Profile{}, err
	}

	var user domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if input.Handle != nil {
			handle := strings.TrimSpace(*input.Handle)
			if user.Handle == nil || *user.Handle != handle {
				other, err := s.users.GetByHandle(ctx, handle)
				switch {
				case err == nil && other.ID != user.ID:
					return fmt.Errorf("%w: username already taken", domain.ErrConflict)
				case err != nil && !errors.Is(err, domain.ErrNotFound):
					return err
				}
			}
			user.Handle = &handle
		}
		if input.DisplayName != nil {
			user.DisplayName = strings.TrimSpace(*input.DisplayName)
		}
		if input.Bio != nil {
			user.Bio = strings.TrimSpace(*input.Bio)
		}
		if input.ProfileImageURL != nil {
			user.ProfileImageURL = strings.TrimSpace(*input.ProfileImageURL)
		}
		return s.users.Update(ctx, user)
	})
	if err != nil {
		return Profile{}, err
	}
	return s.buildProfile(ctx, user)
}

// PublicProfile devuelve el perfil por handle sin el email.
func (s *UserService) PublicProfile(ctx context.Context, handle string) (Profile, error) {
	user, err := s.users.GetByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		return Profile{}, err
	}
	p, err := s.buildProfile(ctx, user)
	if err != nil {
		return Profile{}, err
	}
	p.Email = ""
	return p, nil
}

func (s *UserService) Stats(ctx context.Context, handle string) (UserStats, error) {
	user, err := s.users.GetByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		return UserStats{}, err
	}
	counts, err := s.follows.Counts(ctx, user.ID)
	if err != nil {
		return UserStats{}, err
	}
	return UserStats{UserID: user.ID, Username: user.Handle, SocialCounts: counts}, nil
}

func (s *UserService) buildProfile(ctx context.Context, user domain.User) (Profile, error) {
	counts, err := s.follows.Counts(ctx, user.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("count follows: %w", err)
	}
	p := Profile{User: user, SocialCounts: counts}

	v, err := s.verifications.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		p.CreatorVerification = &VerificationSummary{
			Category:             v.Category,
			DegreeTitle:          v.DegreeTitle,
			ProfessionalRegister: v.ProfessionalRegister,
			Status:               v.Status,
		}
	case !errors.Is(err, domain.ErrNotFound):
		return Profile{}, fmt.Errorf("load verification: %w", err)
	}
	return p, nil
}

func validateProfileInput(input UpdateProfileInput) error {
	if input.Handle != nil && !handlePattern.MatchString(strings.TrimSpace(*input.Handle)) {
		return fmt.Errorf("%w: username must be 3-20 characters of letters, digits or underscore", domain.ErrInvalidInput)
	}
	if input.DisplayName != nil && utf8.RuneCountInString(strings.TrimSpace(*input.DisplayName)) > maxDisplayNameLength {
		return fmt.Errorf("%w: display_name too long", domain.ErrInvalidInput)
	}
	if input.Bio != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Bio)) > maxBioLength {
		return fmt.Errorf("%w: bio_description too long", domain.ErrInvalidInput)
	}
	return nil
}
