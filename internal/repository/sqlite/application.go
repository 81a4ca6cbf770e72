package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

var applicationSortColumns = map[string]bool{
	"id":            true,
	"status":        true,
	"created_at":    true,
	"user_id":       true,
	"internship_id": true,
}

const applicationColumns = `a.id, a.cover_letter, a.status, a.created_at, a.user_id, a.internship_id`

func (r *SQLiteRepo) Apply(ctx context.Context, userID, internshipID int64, coverLetter *string) (*models.Application, error) {
	var app *models.Application
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var exists int64
		row := tx.QueryRowContext(ctx, `SELECT id FROM internships WHERE id = ?`, internshipID)
		if err := row.Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			return err
		}

		row = tx.QueryRowContext(ctx, `SELECT id FROM applications WHERE user_id = ? AND internship_id = ?`, userID, internshipID)
		if err := row.Scan(&exists); err == nil {
			return repository.ErrDuplicate
		} else if err != sql.ErrNoRows {
			return err
		}

		created := now()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO applications (cover_letter, status, created_at, user_id, internship_id) VALUES (?, ?, ?, ?, ?)`,
			coverLetter, string(models.StatusPending), created, userID, internshipID)
		if err != nil {
			// the unique index backstops the existence check against a
			// concurrent duplicate submission
			if isUniqueViolation(err) {
				return repository.ErrDuplicate
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		app = &models.Application{
			ID:           id,
			CoverLetter:  coverLetter,
			Status:       models.StatusPending,
			CreatedAt:    fromMillis(created),
			UserID:       userID,
			InternshipID: internshipID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *SQLiteRepo) ListApplicationsByUser(ctx context.Context, userID int64, opts repository.ListOptions) ([]models.Application, error) {
	return r.listApplications(ctx, "a.user_id = ?", userID, opts)
}

func (r *SQLiteRepo) ListApplicationsByInternship(ctx context.Context, internshipID int64, opts repository.ListOptions) ([]models.Application, error) {
	return r.listApplications(ctx, "a.internship_id = ?", internshipID, opts)
}

func (r *SQLiteRepo) listApplications(ctx context.Context, where string, whereArg int64, opts repository.ListOptions) ([]models.Application, error) {
	withInternship := opts.Has("internship")
	withUser := opts.Has("user")

	var sb strings.Builder
	sb.WriteString(`SELECT ` + applicationColumns)
	if withInternship {
		sb.WriteString(`, ` + internshipColumns)
	}
	if withUser {
		sb.WriteString(`, ` + creatorColumns)
	}
	sb.WriteString(` FROM applications a`)
	if withInternship {
		sb.WriteString(` LEFT JOIN internships i ON i.id = a.internship_id`)
	}
	if withUser {
		sb.WriteString(` LEFT JOIN users u ON u.id = a.user_id`)
	}
	sb.WriteString(` WHERE ` + where)

	limit, offset := window(opts)
	sb.WriteString(` ORDER BY ` + orderClause("a", opts.Sort, applicationSortColumns))
	sb.WriteString(` LIMIT ? OFFSET ?`)

	rows, err := r.conn.QueryRows(ctx, sb.String(), whereArg, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		app, err := scanApplication(rows, withInternship, withUser)
		if err != nil {
			return nil, err
		}

		out = append(out, *app)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateApplicationStatus(ctx context.Context, id int64, status models.Status) (*models.Application, error) {
	var app *models.Application
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = ?`, id)

		var a models.Application
		var coverLetter sql.NullString
		var statusStr string
		var created int64
		if err := row.Scan(&a.ID, &coverLetter, &statusStr, &created, &a.UserID, &a.InternshipID); err != nil {
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			return err
		}

		// unconditional overwrite: no transition rules
		if _, err := tx.ExecContext(ctx, `UPDATE applications SET status = ? WHERE id = ?`, string(status), id); err != nil {
			return err
		}

		if coverLetter.Valid {
			a.CoverLetter = &coverLetter.String
		}
		a.Status = status
		a.CreatedAt = fromMillis(created)
		app = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func scanApplication(rows *sql.Rows, withInternship, withUser bool) (*models.Application, error) {
	var a models.Application
	var coverLetter sql.NullString
	var status string
	var created int64

	dest := []any{&a.ID, &coverLetter, &status, &created, &a.UserID, &a.InternshipID}

	var inID sql.NullInt64
	var inTitle, inDescription, inCompany, inLocation sql.NullString
	var inDeadline, inCreated, inCreatedBy sql.NullInt64
	if withInternship {
		dest = append(dest, &inID, &inTitle, &inDescription, &inCompany, &inLocation, &inDeadline, &inCreated, &inCreatedBy)
	}

	var userID sql.NullInt64
	var userEmail, userRole sql.NullString
	if withUser {
		dest = append(dest, &userID, &userEmail, &userRole)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	if coverLetter.Valid {
		a.CoverLetter = &coverLetter.String
	}
	a.Status = models.Status(status)
	a.CreatedAt = fromMillis(created)

	if withInternship && inID.Valid {
		in := &models.Internship{
			ID:                  inID.Int64,
			Title:               inTitle.String,
			Description:         inDescription.String,
			Company:             inCompany.String,
			ApplicationDeadline: fromMillis(inDeadline.Int64),
			CreatedAt:           fromMillis(inCreated.Int64),
			CreatedBy:           inCreatedBy.Int64,
		}
		if inLocation.Valid {
			in.Location = &inLocation.String
		}
		a.Internship = in
	}
	if withUser && userID.Valid {
		a.User = &models.PublicUser{
			ID:    userID.Int64,
			Email: userEmail.String,
			Role:  models.Role(userRole.String),
		}
	}

	return &a, nil
}
