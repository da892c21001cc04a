package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Treatment   string             `bson:"treatment" json:"treatment"`
	Date        string             `bson:"date" json:"date"` // calendar day as sent by the client, e.g. "June 1, 2024"
	Slot        string             `bson:"slot" json:"slot"`
	Patient     string             `bson:"patient" json:"patient"` // patient email
	PatientName string             `bson:"patientName,omitempty" json:"patientName,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
}

// BookingKey is the (treatment, date, patient) triple a patient may hold at most once.
type BookingKey struct {
	Treatment string
	Date      string
	Patient   string
}

func (b Booking) Key() BookingKey {
	return BookingKey{Treatment: b.Treatment, Date: b.Date, Patient: b.Patient}
}
