package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSessionExpiration is how long a session token stays valid when no
// explicit configuration has been stored.
const DefaultSessionExpiration = 8 * time.Hour

// SessionConfig is the process-wide session policy, stored in the meta
// collection and read by every verification.
type SessionConfig struct {
	// Expiration is the lifetime of a session token after issuance.
	Expiration time.Duration `json:"expiration" bson:"expiration"`
}

// DefaultSessionConfig returns the configuration seeded at first startup.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{Expiration: DefaultSessionExpiration}
}

// Meta is the singleton server-wide settings document.
type Meta struct {
	ID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Config SessionConfig      `json:"config" bson:"config"`
}
