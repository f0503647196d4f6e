package models

import "time"

// Course represents a row in the PostgreSQL courses table.
type Course struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EstimatedTime   string    `json:"estimatedTime"`
	MaterialsNeeded string    `json:"materialsNeeded"`
	UserID          string    `json:"userId"`
	CreatedAt       time.Time `json:"-"`
}

// CourseOwner is the owner projection attached to course reads.
// Only the owner's names are exposed, never email or password.
type CourseOwner struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CourseDetail is a course joined with its owner, as returned by
// GET /api/courses and GET /api/courses/{id}.
type CourseDetail struct {
	Course
	User CourseOwner `json:"user"`
}

// CoursePayload is the JSON body for POST and PUT /api/courses.
// UserID is accepted for wire compatibility but ignored: the owner of a
// created course is always the authenticated identity.
type CoursePayload struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
	UserID          *string `json:"userId"`
}
