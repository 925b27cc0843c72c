package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CounterClaims is the payload of a resend counter token.
type CounterClaims struct {
	Count int `json:"cnt"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 counter tokens.
type Provider struct {
	secret []byte
	now    func() time.Time
}

// NewProvider returns a Provider. now may be nil, in which case time.Now is used.
func NewProvider(secret []byte, now func() time.Time) (*Provider, error) {
	if len(secret) == 0 {
		return nil, errors.New("counter token secret is empty")
	}
	if now == nil {
		now = time.Now
	}
	return &Provider{secret: secret, now: now}, nil
}

func (p *Provider) Sign(count int, ttl time.Duration) (string, error) {
	issued := p.now()
	claims := CounterClaims{
		Count: count,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify returns the count carried by tokenStr. Expired tokens fail verification.
func (p *Provider) Verify(tokenStr string) (int, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CounterClaims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*CounterClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}
	return claims.Count, nil
}
