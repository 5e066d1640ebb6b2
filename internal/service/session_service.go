package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tryhup-api/internal/domain"
)

const (
	defaultSessionTTL    = 24 * time.Hour
	defaultSessionIssuer = "tryhup"
	sessionTokenType     = "session"
)

// SessionService emite y valida tokens de sesión HS256 ligados a un email.
type SessionService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	store  RevocationStore
	now    func() time.Time
}

// SessionToken es la credencial emitida; no se persiste.
type SessionToken struct {
	Token     string    `json:"access_token"`
	Subject   string    `json:"-"`
	ID        string    `json:"-"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// NewSessionService falla con ErrConfiguration si no hay secreto; el
// arranque debe abortar en ese caso.
func NewSessionService(secret, issuer string, ttl time.Duration, store RevocationStore) (*SessionService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: session signing secret is required", domain.ErrConfiguration)
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = defaultSessionIssuer
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if store == nil {
		store = NewMemoryRevocationStore()
	}
	return &SessionService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Issue firma un token para subject con expiración issued-at + ttl.
func (s *SessionService) Issue(subject string) (SessionToken, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return SessionToken{}, domain.ErrInvalidInput
	}
	now := s.now().Truncate(time.Second)
	exp := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := SessionClaims{
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return SessionToken{}, fmt.Errorf("sign session token: %w", err)
	}
	return SessionToken{
		Token:     signed,
		Subject:   subject,
		ID:        jti,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Validate devuelve los claims si la firma es válida, no expiró y no fue revocado.
// Cualquier fallo se reporta como ErrInvalidToken.
func (s *SessionService) Validate(ctx context.Context, token string) (SessionClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return SessionClaims{}, err
	}
	if claims.ID != "" {
		revoked, err := s.store.IsRevoked(ctx, claims.ID)
		if err != nil {
			return SessionClaims{}, fmt.Errorf("check session revocation: %w", err)
		}
		if revoked {
			return SessionClaims{}, domain.ErrInvalidToken
		}
	}
	return claims, nil
}

// Revoke invalida el token hasta su expiración natural.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if claims.ID == "" {
		return domain.ErrInvalidToken
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	return s.store.Revoke(ctx, claims.ID, ttl)
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) parse(token string) (SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SessionClaims{}, domain.ErrInvalidToken
	}
	var claims SessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return SessionClaims{}, domain.ErrInvalidToken
	}
	if claims.TokenType != sessionTokenType || strings.TrimSpace(claims.Subject) == "" {
		return SessionClaims{}, domain.ErrInvalidToken
	}
	return claims, nil
}
