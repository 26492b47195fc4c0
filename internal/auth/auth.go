// Package auth provides password hashing and admin session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any authentication failure. Unknown
// user and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Claims carries the authenticated username in admin session tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and parses HS256 session tokens for the admin API.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for the given username.
func (m *TokenManager) Issue(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims, or ErrInvalidCredentials.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// AdminAuthenticator validates logins for the single configured admin
// account. Multi-tenant organizer accounts are out of scope.
type AdminAuthenticator struct {
	username     string
	passwordHash string
}

// NewAdminAuthenticator constructs an AdminAuthenticator from a username and
// bcrypt password hash.
func NewAdminAuthenticator(username, passwordHash string) *AdminAuthenticator {
	return &AdminAuthenticator{username: username, passwordHash: passwordHash}
}

// Authenticate checks admin credentials.
func (a *AdminAuthenticator) Authenticate(username, password string) error {
	if username != a.username {
		return ErrInvalidCredentials
	}
	return CheckPassword(a.passwordHash, password)
}
