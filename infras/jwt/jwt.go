package jwt

import (
	"errors"
	"fmt"
	"salon/config"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrMissingToken = errors.New("authorization header is required")
	ErrBearerPrefix = errors.New("authorization header must start with 'Bearer '")
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken TokenType = "access"
)

// Claims is what the identity service puts in the access tokens it issues.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWT validates tokens issued elsewhere. This service never mints them.
type JWT interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type Service struct {
	secret []byte
	issuer string
}

func New(cfg *config.Config) JWT {
	return &Service{
		secret: []byte(cfg.JWT.AccessSecret),
		issuer: cfg.JWT.Issuer,
	}
}

// ValidateToken parses an HS256 access token and checks its type and issuer.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != AccessToken || claims.UserID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", ErrBearerPrefix
	}

	return strings.TrimSpace(authHeader[len(prefix):]), nil
}
