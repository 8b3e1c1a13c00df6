package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account in the system.
//
// ID is assigned by the store on insertion and is the zero ObjectID before
// the user has been persisted. PasswordHash is never serialized to JSON and
// must additionally be blanked with Sanitize before a User crosses the HTTP
// boundary.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	DisplayName  string             `json:"display_name" bson:"display_name"`
	PasswordHash string             `json:"-" bson:"hashed_password"`
	Admin        bool               `json:"admin" bson:"admin"`

	// Recipes holds the ids of recipes owned by this user.
	Recipes []primitive.ObjectID `json:"recipes" bson:"recipes"`

	// Tokens holds the user's active sessions in insertion order.
	Tokens []DatedToken `json:"-" bson:"tokens"`
}

// HasIdentity reports whether the store has assigned this user an id.
func (u *User) HasIdentity() bool {
	return !u.ID.IsZero()
}

// Sanitize blanks credential material before the user is handed to a
// client. The JSON tags already hide these fields; blanking them as well
// keeps a copied or re-marshaled User from leaking sessions.
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.Tokens = nil
}

// FindToken returns the dated token matching t, if present.
func (u *User) FindToken(t Token) (DatedToken, bool) {
	for _, dt := range u.Tokens {
		if dt.Token == t {
			return dt, true
		}
	}
	return DatedToken{}, false
}
