package service

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/forum/internal/domain"
)

// TokenCodec turns a server-side session into the opaque value carried by the
// session cookie, and back.
type TokenCodec interface {
	Issue(session *domain.Session) (string, error)
	// Parse verifies the token and returns the session id and user id it
	// names. Any verification failure returns domain.ErrUnauthorized.
	Parse(token string) (sessionID string, userID int64, err error)
}

// JWTCodec signs session references as HS256 JWTs: jti is the session id and
// sub the user id. The session row stays authoritative; the signature only
// keeps clients from guessing session ids.
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec creates a JWTCodec signing with secret.
func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret)}
}

func (c *JWTCodec) Issue(session *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   strconv.FormatInt(session.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Parse(tokenString string) (string, int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", 0, domain.ErrUnauthorized
	}

	if claims.ID == "" {
		return "", 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return "", 0, domain.ErrUnauthorized
	}

	return claims.ID, userID, nil
}
