package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"` // "admin" or empty
	Extra map[string]any     `bson:",inline" json:"-"`
}

type userFields User

var userKeys = map[string]bool{"_id": true, "email": true, "name": true, "role": true}

// IsAdmin reports whether the user holds the admin role. A nil user is never an admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u User) MarshalJSON() ([]byte, error) {
	return mergeExtra(userFields(u), u.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var known userFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := splitExtra(data, userKeys)
	if err != nil {
		return err
	}
	*u = User(known)
	u.Extra = extra
	return nil
}
