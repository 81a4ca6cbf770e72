package repository

import (
	"context"
	"errors"

	"github.com/internhub/internhub/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// Sentinel errors surfaced by implementations so handlers can map them to
// stable response kinds.
var (
	// ErrNotFound means the referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a uniqueness rule was violated (email, or one
	// application per (user, internship) pair).
	ErrDuplicate = errors.New("duplicate")
	// ErrNotOwner means an owner-checked mutation was attempted by a caller
	// that did not create the entity.
	ErrNotOwner = errors.New("not owner")
)

// ListOptions carries the shared listing contract: relation expansion,
// pagination and sorting. Zero values get the defaults applied by the
// implementation (page 1, limit 20, created_at DESC).
type ListOptions struct {
	// Include names relations to eagerly expand in the same round trip:
	// "creator" for internships, "internship"/"user" for applications.
	// Unrecognized names are ignored.
	Include []string
	Page    int
	Limit   int
	// Sort is a column name, optionally prefixed with '-' for descending.
	// Unrecognized columns leave the default ordering unchanged.
	Sort string
}

// Has reports whether the relation name was requested.
func (o ListOptions) Has(relation string) bool {
	for _, inc := range o.Include {
		if inc == relation {
			return true
		}
	}
	return false
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type InternshipRepo interface {
	CreateInternship(ctx context.Context, in *models.Internship) (int64, error)
	GetInternshipByID(ctx context.Context, id int64, opts ListOptions) (*models.Internship, error)
	ListInternships(ctx context.Context, opts ListOptions) ([]models.Internship, error)
	ListInternshipsByCreator(ctx context.Context, creatorID int64, opts ListOptions) ([]models.Internship, error)
	// UpdateInternship applies only the non-nil fields of upd. When ownerID
	// is non-zero the internship must have been created by that user.
	UpdateInternship(ctx context.Context, id int64, upd models.InternshipUpdate, ownerID int64) (*models.Internship, error)
	// DeleteInternship removes the internship and all of its applications.
	DeleteInternship(ctx context.Context, id int64, ownerID int64) error
}

type ApplicationRepo interface {
	// Apply inserts a pending application after verifying the internship
	// exists (ErrNotFound) and the student has not already applied
	// (ErrDuplicate).
	Apply(ctx context.Context, userID, internshipID int64, coverLetter *string) (*models.Application, error)
	ListApplicationsByUser(ctx context.Context, userID int64, opts ListOptions) ([]models.Application, error)
	ListApplicationsByInternship(ctx context.Context, internshipID int64, opts ListOptions) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.Status) (*models.Application, error)
}
