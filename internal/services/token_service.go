package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token audiences keep session and password reset tokens apart.
const (
	AudienceSession       = "session"
	AudiencePasswordReset = "password_reset"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrJWTSecretTooWeak = fmt.Errorf("JWT secret must be at least %d bytes", constants.MinJWTSecretLength)
)

// Claims represents JWT token claims.
type Claims struct {
	UserID uint64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs and validates session and password reset tokens.
type TokenService struct {
	secret        []byte
	sessionExpiry time.Duration
	resetExpiry   time.Duration
}

// NewTokenService creates a TokenService. The secret must be at least
// constants.MinJWTSecretLength bytes.
func NewTokenService(secret string, sessionExpiry, resetExpiry time.Duration) (*TokenService, error) {
	if len(secret) < constants.MinJWTSecretLength {
		return nil, ErrJWTSecretTooWeak
	}
	return &TokenService{
		secret:        []byte(secret),
		sessionExpiry: sessionExpiry,
		resetExpiry:   resetExpiry,
	}, nil
}

// ResetExpiry returns the lifetime of password reset tokens.
func (s *TokenService) ResetExpiry() time.Duration {
	return s.resetExpiry
}

func (s *TokenService) GenerateSessionToken(userID uint64) (string, error) {
	return s.generateToken(userID, AudienceSession, s.sessionExpiry, "")
}

func (s *TokenService) GenerateResetToken(userID uint64) (string, error) {
	return s.generateToken(userID, AudiencePasswordReset, s.resetExpiry, uuid.NewString())
}

// ValidateSessionToken returns the claims of a valid session token.
func (s *TokenService) ValidateSessionToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, AudienceSession)
}

// ValidateResetToken returns the claims of a valid password reset token.
func (s *TokenService) ValidateResetToken(tokenString string) (*Claims, error) {
	claims, err := s.validateToken(tokenString, AudiencePasswordReset)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) generateToken(userID uint64, audience string, expiry time.Duration, tokenID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) validateToken(tokenString, audience string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
