package mcp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// tokens are valid for 24 hours from issuance
const tokenTTL = 24 * time.Hour

var (
	// ErrMissingAuth is returned when a request carries no auth payload
	ErrMissingAuth = errors.New("missing authentication")

	// ErrInvalidSignature is returned when the HMAC signature does not match
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrTokenExpired is returned when the token timestamp is outside the TTL
	ErrTokenExpired = errors.New("token expired")
)

// Auth is the authentication payload attached to every function call. The
// signature covers "token:timestamp" so neither can be replayed independently.
type Auth struct {
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// Authenticator signs and verifies function call credentials
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator creates an authenticator with the given shared secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// CreateAuth issues a signed auth payload for the given token
func (a *Authenticator) CreateAuth(token string) Auth {
	timestamp := a.now().UnixMilli()
	return Auth{
		Token:     token,
		Timestamp: timestamp,
		Signature: a.sign(token, timestamp),
	}
}

// Verify checks the signature and token age
func (a *Authenticator) Verify(auth *Auth) error {
	if auth == nil || auth.Token == "" || auth.Signature == "" {
		return ErrMissingAuth
	}

	expected := a.sign(auth.Token, auth.Timestamp)
	if !hmac.Equal([]byte(expected), []byte(auth.Signature)) {
		return ErrInvalidSignature
	}

	issued := time.UnixMilli(auth.Timestamp)
	if a.now().Sub(issued) > tokenTTL {
		return ErrTokenExpired
	}

	return nil
}

func (a *Authenticator) sign(token string, timestamp int64) string {
	mac := hmac.New(sha256.New, a.secret)
	fmt.Fprintf(mac, "%s:%d", token, timestamp)
	return hex.EncodeToString(mac.Sum(nil))
}
