package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"innkeeper/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// RevocationStore remembers revoked token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims are the verified contents of a credential.
type Claims struct {
	UserID  int64
	Login   string
	Role    int
	TokenID string
	Expires time.Time
}

// Service issues and verifies signed, time-limited credentials.
type Service struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
}

// New builds the service. revoked may be nil, in which case logout is a
// client-side concern only.
func New(secret string, ttl time.Duration, revoked RevocationStore) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, revoked: revoked}
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password with a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type tokenClaims struct {
	Login string `json:"login"`
	Role  int    `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a credential for the user, valid for the configured
// TTL.
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Login: user.Login,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a credential: signature, expiry and
// revocation. Missing, malformed, forged and expired tokens all map to
// ErrInvalidToken.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return &Claims{
		UserID:  userID,
		Login:   claims.Login,
		Role:    claims.Role,
		TokenID: claims.ID,
		Expires: claims.ExpiresAt.Time,
	}, nil
}

// RevokeToken invalidates a verified credential for the rest of its
// lifetime. No-op without a revocation store.
func (s *Service) RevokeToken(ctx context.Context, claims *Claims) error {
	if s.revoked == nil {
		return nil
	}
	ttl := time.Until(claims.Expires)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.TokenID, ttl)
}
