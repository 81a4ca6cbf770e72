package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

var internshipSortColumns = map[string]bool{
	"id":                   true,
	"title":                true,
	"company":              true,
	"location":             true,
	"application_deadline": true,
	"created_at":           true,
	"created_by":           true,
}

const internshipColumns = `i.id, i.title, i.description, i.company, i.location, i.application_deadline, i.created_at, i.created_by`

// creatorColumns are selected only when the "creator" relation is included;
// the LEFT JOIN keeps the row (with a nil creator) if the user vanished.
const creatorColumns = `u.id, u.email, u.role`

func (r *SQLiteRepo) CreateInternship(ctx context.Context, in *models.Internship) (int64, error) {
	if in == nil {
		return 0, fmt.Errorf("internship is nil")
	}

	created := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO internships (title, description, company, location, application_deadline, created_at, created_by) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.Company, in.Location, toMillis(in.ApplicationDeadline), created, in.CreatedBy)
	if err != nil {
		return 0, err
	}
	in.CreatedAt = fromMillis(created)

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetInternshipByID(ctx context.Context, id int64, opts repository.ListOptions) (*models.Internship, error) {
	withCreator := opts.Has("creator")

	query := `SELECT ` + internshipColumns
	if withCreator {
		query += `, ` + creatorColumns
	}
	query += ` FROM internships i`
	if withCreator {
		query += ` LEFT JOIN users u ON u.id = i.created_by`
	}
	query += ` WHERE i.id = ?`

	rows, err := r.conn.QueryRows(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	in, err := scanInternship(rows, withCreator)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (r *SQLiteRepo) ListInternships(ctx context.Context, opts repository.ListOptions) ([]models.Internship, error) {
	return r.listInternships(ctx, "", 0, opts)
}

func (r *SQLiteRepo) ListInternshipsByCreator(ctx context.Context, creatorID int64, opts repository.ListOptions) ([]models.Internship, error) {
	return r.listInternships(ctx, "i.created_by = ?", creatorID, opts)
}

func (r *SQLiteRepo) listInternships(ctx context.Context, where string, whereArg int64, opts repository.ListOptions) ([]models.Internship, error) {
	withCreator := opts.Has("creator")

	var sb strings.Builder
	sb.WriteString(`SELECT ` + internshipColumns)
	if withCreator {
		sb.WriteString(`, ` + creatorColumns)
	}
	sb.WriteString(` FROM internships i`)
	if withCreator {
		sb.WriteString(` LEFT JOIN users u ON u.id = i.created_by`)
	}

	args := make([]any, 0, 3)
	if where != "" {
		sb.WriteString(` WHERE ` + where)
		args = append(args, whereArg)
	}

	limit, offset := window(opts)
	sb.WriteString(` ORDER BY ` + orderClause("i", opts.Sort, internshipSortColumns))
	sb.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	rows, err := r.conn.QueryRows(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Internship
	for rows.Next() {
		in, err := scanInternship(rows, withCreator)
		if err != nil {
			return nil, err
		}

		out = append(out, *in)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateInternship(ctx context.Context, id int64, upd models.InternshipUpdate, ownerID int64) (*models.Internship, error) {
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var createdBy int64
		row := tx.QueryRowContext(ctx, `SELECT created_by FROM internships WHERE id = ?`, id)
		if err := row.Scan(&createdBy); err != nil {
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			return err
		}
		if ownerID != 0 && createdBy != ownerID {
			return repository.ErrNotOwner
		}

		// partial update: only fields present in the request are touched
		sets := make([]string, 0, 5)
		args := make([]any, 0, 6)
		if upd.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *upd.Title)
		}
		if upd.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, *upd.Description)
		}
		if upd.Company != nil {
			sets = append(sets, "company = ?")
			args = append(args, *upd.Company)
		}
		if upd.Location != nil {
			sets = append(sets, "location = ?")
			args = append(args, *upd.Location)
		}
		if upd.ApplicationDeadline != nil {
			sets = append(sets, "application_deadline = ?")
			args = append(args, toMillis(*upd.ApplicationDeadline))
		}
		if len(sets) == 0 {
			return nil
		}

		args = append(args, id)
		_, err := tx.ExecContext(ctx, `UPDATE internships SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		return err
	})
	if err != nil {
		return nil, err
	}

	in, err := r.GetInternshipByID(ctx, id, repository.ListOptions{})
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, repository.ErrNotFound
	}
	return in, nil
}

func (r *SQLiteRepo) DeleteInternship(ctx context.Context, id int64, ownerID int64) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var createdBy int64
		row := tx.QueryRowContext(ctx, `SELECT created_by FROM internships WHERE id = ?`, id)
		if err := row.Scan(&createdBy); err != nil {
			if err == sql.ErrNoRows {
				return repository.ErrNotFound
			}
			return err
		}
		if ownerID != 0 && createdBy != ownerID {
			return repository.ErrNotOwner
		}

		// cascade applications explicitly; the FK mirrors this for callers
		// going around the repo
		if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE internship_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM internships WHERE id = ?`, id)
		return err
	})
}

func scanInternship(rows *sql.Rows, withCreator bool) (*models.Internship, error) {
	var in models.Internship
	var location sql.NullString
	var deadline, created int64

	dest := []any{&in.ID, &in.Title, &in.Description, &in.Company, &location, &deadline, &created, &in.CreatedBy}

	var creatorID sql.NullInt64
	var creatorEmail, creatorRole sql.NullString
	if withCreator {
		dest = append(dest, &creatorID, &creatorEmail, &creatorRole)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	if location.Valid {
		in.Location = &location.String
	}
	in.ApplicationDeadline = fromMillis(deadline)
	in.CreatedAt = fromMillis(created)

	if withCreator && creatorID.Valid {
		in.Creator = &models.PublicUser{
			ID:    creatorID.Int64,
			Email: creatorEmail.String,
			Role:  models.Role(creatorRole.String),
		}
	}

	return &in, nil
}
