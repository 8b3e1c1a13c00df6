package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Token is an opaque 128-bit session identifier in canonical UUID string
// form. It carries no embedded semantics; equality is the only meaningful
// comparison.
type Token string

// NewToken generates a cryptographically random token. The underlying
// entropy source is assumed always available; uuid.New panics if it is not,
// which is a process-abort condition rather than a recoverable error.
func NewToken() Token {
	return Token(uuid.NewString())
}

// ParseToken parses the canonical string form of a token.
func ParseToken(s string) (Token, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	return Token(id.String()), nil
}

func (t Token) String() string {
	return string(t)
}

// DatedToken is a session token paired with its issuance instant.
type DatedToken struct {
	Token  Token     `json:"token" bson:"token"`
	Issued time.Time `json:"date" bson:"date"`
}

// NewDatedToken issues a fresh token stamped with the current UTC instant.
func NewDatedToken() DatedToken {
	return DatedToken{
		Token:  NewToken(),
		Issued: time.Now().UTC(),
	}
}

// Expired reports whether the token's lifetime has elapsed. A non-positive
// ttl means every token is expired: expiration always fails safe.
func (d DatedToken) Expired(ttl time.Duration) bool {
	return time.Since(d.Issued) >= ttl
}
