package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify the logged-in user inside the session cookie.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

type signer struct {
	secret []byte
	issuer string
}

func (s signer) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s signer) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}

func (s signer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// Generate issues a signed session token for the given user.
func (m *Manager) Generate(userID int64, username string) (string, error) {
	return m.signer.sign(Claims{
		UserID:           userID,
		Username:         username,
		RegisteredClaims: m.signer.registered("session", m.ttl),
	})
}

// Parse verifies a session token and returns its claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := m.signer.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// EncodeFlashes produces the flash cookie value carrying flashes to the
// next request.
func (m *Manager) EncodeFlashes(flashes []Flash) (string, error) {
	return m.signer.sign(flashClaims{
		Flashes:          flashes,
		RegisteredClaims: m.signer.registered("flash", flashTTL),
	})
}

func (m *Manager) decodeFlashes(tokenStr string) ([]Flash, error) {
	claims := &flashClaims{}
	if err := m.signer.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims.Flashes, nil
}
