package mock

import (
	"context"
	"sort"
	"time"

	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Users        *UserRepo
	Internships  *InternshipRepo
	Applications *ApplicationRepo
}

func NewMocks() *Mocks {
	users := &UserRepo{Stored: make(map[int64]*models.User)}
	internships := &InternshipRepo{Stored: make(map[int64]*models.Internship), Users: users}
	return &Mocks{
		Users:        users,
		Internships:  internships,
		Applications: &ApplicationRepo{Internships: internships, Users: users},
	}
}

type UserRepo struct {
	Stored    map[int64]*models.User
	CreateErr error
	nextID    int64
}

var _ repository.UserRepo = (*UserRepo)(nil)

// Add seeds a user and returns it for convenience.
func (m *UserRepo) Add(email, passwordHash string, role models.Role) *models.User {
	m.nextID++
	u := &models.User{ID: m.nextID, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now().UTC()}
	m.Stored[u.ID] = u
	return u
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, existing := range m.Stored {
		if existing.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	created := m.Add(u.Email, u.PasswordHash, u.Role)
	return created.ID, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return m.Stored[id], nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.Stored {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(m.Stored)), nil
}

type InternshipRepo struct {
	Stored  map[int64]*models.Internship
	Users   *UserRepo
	ListErr error
	nextID  int64
}

var _ repository.InternshipRepo = (*InternshipRepo)(nil)

// Add seeds an internship owned by creatorID.
func (m *InternshipRepo) Add(title, company string, creatorID int64) *models.Internship {
	m.nextID++
	in := &models.Internship{
		ID:                  m.nextID,
		Title:               title,
		Description:         "desc",
		Company:             company,
		ApplicationDeadline: time.Now().Add(30 * 24 * time.Hour).UTC(),
		CreatedAt:           time.Now().UTC(),
		CreatedBy:           creatorID,
	}
	m.Stored[in.ID] = in
	return in
}

func (m *InternshipRepo) CreateInternship(ctx context.Context, in *models.Internship) (int64, error) {
	m.nextID++
	in.ID = m.nextID
	in.CreatedAt = time.Now().UTC()
	cp := *in
	m.Stored[in.ID] = &cp
	return in.ID, nil
}

func (m *InternshipRepo) GetInternshipByID(ctx context.Context, id int64, opts repository.ListOptions) (*models.Internship, error) {
	in, ok := m.Stored[id]
	if !ok {
		return nil, nil
	}
	cp := *in
	if opts.Has("creator") {
		if u := m.Users.Stored[in.CreatedBy]; u != nil {
			pub := u.Public()
			cp.Creator = &pub
		}
	}
	return &cp, nil
}

func (m *InternshipRepo) ListInternships(ctx context.Context, opts repository.ListOptions) ([]models.Internship, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.list(func(*models.Internship) bool { return true }, opts), nil
}

func (m *InternshipRepo) ListInternshipsByCreator(ctx context.Context, creatorID int64, opts repository.ListOptions) ([]models.Internship, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.list(func(in *models.Internship) bool { return in.CreatedBy == creatorID }, opts), nil
}

func (m *InternshipRepo) list(keep func(*models.Internship) bool, opts repository.ListOptions) []models.Internship {
	var out []models.Internship
	for _, in := range m.Stored {
		if keep(in) {
			out = append(out, *in)
		}
	}
	// newest first, like the real repo's default ordering
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *InternshipRepo) UpdateInternship(ctx context.Context, id int64, upd models.InternshipUpdate, ownerID int64) (*models.Internship, error) {
	in, ok := m.Stored[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ownerID != 0 && in.CreatedBy != ownerID {
		return nil, repository.ErrNotOwner
	}
	if upd.Title != nil {
		in.Title = *upd.Title
	}
	if upd.Description != nil {
		in.Description = *upd.Description
	}
	if upd.Company != nil {
		in.Company = *upd.Company
	}
	if upd.Location != nil {
		in.Location = upd.Location
	}
	if upd.ApplicationDeadline != nil {
		in.ApplicationDeadline = *upd.ApplicationDeadline
	}
	cp := *in
	return &cp, nil
}

func (m *InternshipRepo) DeleteInternship(ctx context.Context, id int64, ownerID int64) error {
	in, ok := m.Stored[id]
	if !ok {
		return repository.ErrNotFound
	}
	if ownerID != 0 && in.CreatedBy != ownerID {
		return repository.ErrNotOwner
	}
	delete(m.Stored, id)
	return nil
}

type ApplicationRepo struct {
	Stored      []*models.Application
	Internships *InternshipRepo
	Users       *UserRepo
	nextID      int64
}

var _ repository.ApplicationRepo = (*ApplicationRepo)(nil)

func (m *ApplicationRepo) Apply(ctx context.Context, userID, internshipID int64, coverLetter *string) (*models.Application, error) {
	if _, ok := m.Internships.Stored[internshipID]; !ok {
		return nil, repository.ErrNotFound
	}
	for _, a := range m.Stored {
		if a.UserID == userID && a.InternshipID == internshipID {
			return nil, repository.ErrDuplicate
		}
	}
	m.nextID++
	app := &models.Application{
		ID:           m.nextID,
		CoverLetter:  coverLetter,
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
		UserID:       userID,
		InternshipID: internshipID,
	}
	m.Stored = append(m.Stored, app)
	cp := *app
	return &cp, nil
}

func (m *ApplicationRepo) ListApplicationsByUser(ctx context.Context, userID int64, opts repository.ListOptions) ([]models.Application, error) {
	return m.list(func(a *models.Application) bool { return a.UserID == userID }, opts), nil
}

func (m *ApplicationRepo) ListApplicationsByInternship(ctx context.Context, internshipID int64, opts repository.ListOptions) ([]models.Application, error) {
	return m.list(func(a *models.Application) bool { return a.InternshipID == internshipID }, opts), nil
}

func (m *ApplicationRepo) list(keep func(*models.Application) bool, opts repository.ListOptions) []models.Application {
	var out []models.Application
	for _, a := range m.Stored {
		if !keep(a) {
			continue
		}
		cp := *a
		if opts.Has("internship") {
			if in, ok := m.Internships.Stored[a.InternshipID]; ok {
				inCp := *in
				cp.Internship = &inCp
			}
		}
		if opts.Has("user") {
			if u := m.Users.Stored[a.UserID]; u != nil {
				pub := u.Public()
				cp.User = &pub
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *ApplicationRepo) UpdateApplicationStatus(ctx context.Context, id int64, status models.Status) (*models.Application, error) {
	for _, a := range m.Stored {
		if a.ID == id {
			a.Status = status
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}
