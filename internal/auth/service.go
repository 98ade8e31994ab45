package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

const tokenIssuer = "pathlight"

// Claims is the JWT payload carried by bearer tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service wraps credential verification and bearer token handling.
type Service struct {
	repo   Repository
	tokens TokenStore
	secret []byte
	ttl    time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens TokenStore, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{repo: repo, tokens: tokens, secret: []byte(secret), ttl: ttl}
}

// Authenticate validates email/password credentials. Every failure mode
// collapses into ErrInvalidCredentials so responses cannot be used to probe
// which accounts exist.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	user.PasswordHash = ""
	return user, nil
}

// IssueToken signs a bearer token for the user.
func (s *Service) IssueToken(user *User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(authz.NormalizeRole(user.Role)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken parses and validates a bearer token, including the revocation
// check. It returns the embedded claims.
func (s *Service) VerifyToken(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, shared.ErrTokenFailed
	}
	if s.tokens != nil && claims.ID != "" {
		revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.ErrTokenFailed
		}
	}
	return claims, nil
}

// ResolveIdentity verifies a token and resolves its subject to a live
// identity. A verified token whose subject no longer resolves is an
// authentication failure, never an authenticated-but-empty identity.
func (s *Service) ResolveIdentity(ctx context.Context, raw string) (authz.Identity, error) {
	claims, err := s.VerifyToken(ctx, raw)
	if err != nil {
		return authz.Identity{}, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return authz.Identity{}, shared.ErrTokenFailed
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return authz.Identity{}, shared.ErrTokenFailed
		}
		return authz.Identity{}, err
	}
	if !user.IsActive {
		return authz.Identity{}, shared.ErrTokenFailed
	}
	return authz.Identity{
		ID:    user.ID,
		Role:  authz.NormalizeRole(user.Role),
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// RevokeToken invalidates a verified token for its remaining lifetime.
func (s *Service) RevokeToken(ctx context.Context, raw string) error {
	claims, err := s.VerifyToken(ctx, raw)
	if err != nil {
		return err
	}
	if s.tokens == nil || claims.ID == "" {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	return s.tokens.Revoke(ctx, claims.ID, remaining)
}

// TokenTTL exposes the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}
