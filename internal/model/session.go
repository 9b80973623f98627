package model

import "time"

// Session is the state stored per visitor session key.
type Session struct {
	Cart      Cart           `json:"cart"`
	Flashes   []Notification `json:"flashes,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
