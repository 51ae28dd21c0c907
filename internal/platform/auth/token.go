package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

// DefaultTokenTTL is how long an issued session token stays valid. Tokens are
// non-refreshable and non-revocable; there is no server-side session table.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the verified payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Issuer signs and verifies session tokens with an HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue returns a signed bearer token for the given subject.
func (i *Issuer) Issue(userID int64, username string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "signing token", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token, returning its claims. Expired,
// tampered and malformed tokens all come back as Unauthenticated.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid token")
	}
	if _, ok := ParseRole(string(claims.Role)); !ok {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid token")
	}
	return claims, nil
}
