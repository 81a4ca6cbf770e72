package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Status is the closed set of application statuses.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PublicUser is the slice of a User safe to embed in expanded responses.
type PublicUser struct {
	ID    int64  `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Role  Role   `json:"role" db:"role"`
}

// Public returns the response-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

type Internship struct {
	ID                  int64     `json:"id" db:"id"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	Company             string    `json:"company" db:"company"`
	Location            *string   `json:"location" db:"location"`
	ApplicationDeadline time.Time `json:"application_deadline" db:"application_deadline"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	CreatedBy           int64     `json:"created_by" db:"created_by"`

	// Creator is populated only when the "creator" relation is included.
	Creator *PublicUser `json:"creator,omitempty"`
}

// InternshipUpdate carries a partial update: nil fields are left untouched.
type InternshipUpdate struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Company             *string    `json:"company"`
	Location            *string    `json:"location"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

type Application struct {
	ID           int64     `json:"id" db:"id"`
	CoverLetter  *string   `json:"cover_letter" db:"cover_letter"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UserID       int64     `json:"user_id" db:"user_id"`
	InternshipID int64     `json:"internship_id" db:"internship_id"`

	// Populated only when the matching relation is included. A relation whose
	// target row vanished mid-request stays nil rather than failing the list.
	Internship *Internship `json:"internship,omitempty"`
	User       *PublicUser `json:"user,omitempty"`
}
