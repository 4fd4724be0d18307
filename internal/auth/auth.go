// Package auth implements the single-organizer admin login: a bcrypt
// password check and short-lived signed session tokens carried in a cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the admin session cookie.
const CookieName = "gamepop_admin"

const tokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid admin token")

type Admin struct {
	passwordHash string
	secret       []byte
}

func New(passwordHash, secret string) *Admin {
	return &Admin{passwordHash: passwordHash, secret: []byte(secret)}
}

// Enabled reports whether admin login is configured at all.
func (a *Admin) Enabled() bool {
	return a.passwordHash != "" && len(a.secret) > 0
}

// VerifyPassword checks a login attempt against the configured bcrypt hash.
func (a *Admin) VerifyPassword(password string) bool {
	if !a.Enabled() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) == nil
}

// IssueToken returns a signed session token valid for a week.
func (a *Admin) IssueToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token's signature and expiry.
func (a *Admin) VerifyToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
