// Package token signs and verifies session tokens. A token captures the
// principal resolved at session establishment; the role inside it was read
// from the user store, never from the client.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/offranel/storefront/internal/core/domain"
)

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	UID   string `json:"uid"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and parses HS256 session tokens.
type Codec struct {
	secret []byte
}

func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs a token for p that expires after ttl.
func (c *Codec) Issue(p domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	cl := claims{
		UID:   p.UID,
		Name:  p.DisplayName,
		Photo: p.Photo,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
}

// Parse verifies raw and returns the principal it carries.
func (c *Codec) Parse(raw string) (domain.Principal, error) {
	var cl claims
	tkn, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid || cl.UID == "" {
		return domain.Principal{}, ErrInvalidToken
	}
	return domain.Principal{
		UID:         cl.UID,
		DisplayName: cl.Name,
		Photo:       cl.Photo,
		Role:        cl.Role,
	}, nil
}
