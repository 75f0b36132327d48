package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the only error Verify returns; the cause is never exposed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload: the user id and the purpose the token was issued for.
type Claims struct {
	UserID  string `json:"_id"`
	Purpose string `json:"access"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens with a process wide secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec returns a codec. A ttl of 0 issues tokens without expiry.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs {userID, purpose}. Each call carries a random jti, so tokens are unique per call.
func (c *TokenCodec) Issue(userID, purpose string) (string, error) {
	now := c.now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and decodes the claims.
func (c *TokenCodec) Verify(token string) (Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Purpose == "" {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
