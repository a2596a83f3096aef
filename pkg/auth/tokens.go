package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenValidator validates bearer tokens and returns their claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
	Close()
}

// TokenIssuer signs HS256 tokens for locally authenticated users.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(secret []byte, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue returns a signed token for the user and its expiry.
func (i *TokenIssuer) Issue(userID uuid.UUID, email, name string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(i.ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: email,
		Name:  name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// tokenValidator accepts HS256 tokens from the local issuer and, when a
// JWKS client is configured, RSA tokens from whitelisted external issuers.
type tokenValidator struct {
	secret []byte
	issuer string
	jwks   TokenValidator
}

// NewTokenValidator creates a validator for locally issued tokens. jwks may
// be nil when no external issuers are configured.
func NewTokenValidator(secret []byte, issuer string, jwks TokenValidator) TokenValidator {
	return &tokenValidator{secret: secret, issuer: issuer, jwks: jwks}
}

func (v *tokenValidator) ValidateToken(tokenString string) (*Claims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if _, isRSA := unverified.Method.(*jwt.SigningMethodRSA); isRSA {
		if v.jwks == nil {
			return nil, errors.New("external tokens are not accepted")
		}
		return v.jwks.ValidateToken(tokenString)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func (v *tokenValidator) Close() {
	if v.jwks != nil {
		v.jwks.Close()
	}
}

var _ TokenValidator = (*tokenValidator)(nil)
