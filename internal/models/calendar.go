package models

import "time"

type CalendarEvent struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Category    string    `bson:"category" json:"category"`
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end,omitempty" json:"end,omitempty"`
	AllDay      bool      `bson:"all_day" json:"allDay"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   Identity  `bson:"created_by" json:"createdBy"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// Holiday mirrors the payload of the public holiday API, plus the lunar
// entries merged in for Vietnam.
type Holiday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Fixed       bool     `json:"fixed"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}
