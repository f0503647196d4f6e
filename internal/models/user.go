package models

import "time"

// User represents a row in the PostgreSQL users table.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	EmailAddress string    `json:"emailAddress"`
	Password     string    `json:"-"` // bcrypt digest, never serialize
	CreatedAt    time.Time `json:"-"`
}

// Profile is the response body for GET /api/users.
type Profile struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// UserPayload is the JSON body for POST /api/users. Pointer fields
// distinguish a field absent from the body from one sent empty, so
// validation can report the two cases with different messages.
type UserPayload struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	EmailAddress *string `json:"emailAddress"`
	Password     *string `json:"password"`
}
