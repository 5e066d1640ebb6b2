package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/email"
	"tryhup-api/internal/metrics"
	"tryhup-api/internal/repository"
)

const (
	loginCodeDigits        = 6
	defaultDeliveryTimeout = 15 * time.Second
)

// LoginCodeService emite y verifica códigos de acceso de un solo uso.
type LoginCodeService struct {
	logger   *zap.Logger
	tx       repository.TxManager
	codes    repository.LoginCodeRepository
	users    repository.UserRepository
	sender   email.Sender
	limiter  LoginCodeLimiter
	metrics  *metrics.Metrics
	hashCost int

	now      func() time.Time
	newCode  func() (string, error)
	dispatch func(func())
}

func NewLoginCodeService(
	logger *zap.Logger,
	tx repository.TxManager,
	codes repository.LoginCodeRepository,
	users repository.UserRepository,
	sender email.Sender,
	limiter LoginCodeLimiter,
	m *metrics.Metrics,
) *LoginCodeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryLoginCodeLimiter(domain.LoginCodeTTL, 3)
	}
	return &LoginCodeService{
		logger:   logger,
		tx:       tx,
		codes:    codes,
		users:    users,
		sender:   sender,
		limiter:  limiter,
		metrics:  m,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
		newCode:  generateLoginCode,
		dispatch: func(fn func()) { go fn() },
	}
}

// IssuedCode es el resultado de una emisión. Code es el valor en claro y
// solo viaja al Sender.
type IssuedCode struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Code      string    `json:"-"`
}

// Issue invalida los códigos pendientes del email y crea uno nuevo. La entrega
// corre en segundo plano: un fallo del Sender no invalida el código emitido.
func (s *LoginCodeService) Issue(ctx context.Context, emailAddr string) (IssuedCode, error) {
	emailAddr = domain.NormalizeEmail(emailAddr)
	if !isPlausibleEmail(emailAddr) {
		return IssuedCode{}, fmt.Errorf("%w: email", domain.ErrInvalidInput)
	}
	if !s.limiter.Allow(ctx, emailAddr) {
		return IssuedCode{}, domain.ErrRateLimited
	}

	code, err := s.newCode()
	if err != nil {
		return IssuedCode{}, fmt.Errorf("generate login code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return IssuedCode{}, fmt.Errorf("hash login code: %w", err)
	}

	now := s.now()
	record := domain.LoginCode{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(domain.LoginCodeTTL),
		CreatedAt: now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.codes.LockEmail(ctx, emailAddr); err != nil {
			return err
		}
		invalidated, err := s.codes.InvalidateUnused(ctx, emailAddr)
		if err != nil {
			return err
		}
		if invalidated > 0 {
			s.logger.Debug("previous login codes invalidated",
				zap.String("email", emailAddr),
				zap.Int64("count", invalidated),
			)
		}
		return s.codes.Create(ctx, record)
	})
	if err != nil {
		return IssuedCode{}, fmt.Errorf("issue login code: %w", err)
	}
	s.metrics.LoginCodeIssued()

	s.deliver(ctx, emailAddr, code, record.ExpiresAt)

	return IssuedCode{Email: emailAddr, ExpiresAt: record.ExpiresAt, Code: code}, nil
}

func (s *LoginCodeService) deliver(ctx context.Context, emailAddr, code string, expiresAt time.Time) {
	if s.sender == nil {
		s.logger.Warn("login code not delivered: no sender configured", zap.String("email", emailAddr))
		s.metrics.LoginCodeDelivered(errors.New("no sender"))
		return
	}
	base := context.WithoutCancel(ctx)
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(base, defaultDeliveryTimeout)
		defer cancel()
		err := s.sender.SendLoginCode(ctx, emailAddr, code, expiresAt)
		s.metrics.LoginCodeDelivered(err)
		if err != nil {
			s.logger.Warn("send login code failed", zap.Error(err), zap.String("email", emailAddr))
		}
	})
}

// Verify consume el código vigente más reciente del email. Si no existe
// usuario para el email se crea con rol estándar y activo.
func (s *LoginCodeService) Verify(ctx context.Context, emailAddr, code string) (domain.User, error) {
	emailAddr = domain.NormalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" || !isLoginCodeFormat(code) {
		s.metrics.LoginVerified(domain.ErrInvalidOrExpiredCode)
		return domain.User{}, domain.ErrInvalidOrExpiredCode
	}

	var user domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.codes.LockEmail(ctx, emailAddr); err != nil {
			return err
		}
		record, err := s.codes.LatestValid(ctx, emailAddr, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidOrExpiredCode
			}
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
			return domain.ErrInvalidOrExpiredCode
		}

		user, err = s.users.GetByEmail(ctx, emailAddr)
		switch {
		case err == nil:
			if !user.IsActive {
				return domain.ErrInactiveUser
			}
		case errors.Is(err, domain.ErrNotFound):
			user = newStandardUser(emailAddr, domain.RoleStandard, s.now())
			if err := s.users.Create(ctx, user); err != nil {
				return err
			}
		default:
			return err
		}

		if err := s.codes.MarkUsed(ctx, record.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInvalidOrExpiredCode
			}
			return err
		}
		return nil
	})
	s.metrics.LoginVerified(err)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func newStandardUser(emailAddr string, role domain.Role, now time.Time) domain.User {
	return domain.User{
		ID:        uuid.NewString(),
		Email:     emailAddr,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
	}
}

func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func isLoginCodeFormat(code string) bool {
	if len(code) != loginCodeDigits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func isPlausibleEmail(addr string) bool {
	at := strings.IndexByte(addr, '@')
	return at > 0 && at < len(addr)-1 && !strings.ContainsAny(addr, " \t\r\n")
}
