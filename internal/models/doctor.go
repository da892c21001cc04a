package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor keeps any top-level field the admin sends besides the named ones in Extra.
type Doctor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email" binding:"required,email"`
	Name      string             `bson:"name" json:"name"`
	Specialty string             `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Img       string             `bson:"img,omitempty" json:"img,omitempty"`
	Profile   map[string]any     `bson:"profile,omitempty" json:"profile,omitempty"` // free-form profile fields
	Extra     map[string]any     `bson:",inline" json:"-"`
}

type doctorFields Doctor

var doctorKeys = map[string]bool{"_id": true, "email": true, "name": true, "specialty": true, "img": true, "profile": true}

func (d Doctor) MarshalJSON() ([]byte, error) {
	return mergeExtra(doctorFields(d), d.Extra)
}

func (d *Doctor) UnmarshalJSON(data []byte) error {
	var known doctorFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := splitExtra(data, doctorKeys)
	if err != nil {
		return err
	}
	*d = Doctor(known)
	d.Extra = extra
	return nil
}
