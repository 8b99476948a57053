package utils

import (
	"errors"  // Sentinel errors
	"strconv" // User id <-> subject
	"time"    // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// SessionTTL is how long a session token stays valid after issuance
const SessionTTL = 2 * time.Hour

// ErrInvalidSession covers bad signatures, malformed tokens and expired tokens alike
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims is the signed session payload: sub, email, iat, exp
type SessionClaims struct {
	Email                string `json:"email"` // Custom claim for the user's email
	jwt.RegisteredClaims        // Standard JWT claims
}

// Session is the identity carried by a verified token
type Session struct {
	UserID    uint
	Email     string
	ExpiresAt time.Time
}

// SessionIssuer mints and verifies HS256 session tokens
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer creates an issuer signing with secret
func NewSessionIssuer(secret string) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret), ttl: SessionTTL, now: time.Now}
}

// WithClock returns a copy of the issuer that reads the time from now
func (s *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	cp := *s
	cp.now = now
	return &cp
}

// TTL returns the token lifetime
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue creates a session token for a given user
func (s *SessionIssuer) Issue(userID uint, email string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// Verify parses and validates a session token. It is valid strictly before exp.
func (s *SessionIssuer) Verify(tokenStr string) (*Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrInvalidSession
	}
	return &Session{
		UserID:    uint(userID),
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
