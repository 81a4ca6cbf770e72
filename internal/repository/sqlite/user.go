package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/internhub/internhub/pkg/models"
	"github.com/internhub/internhub/pkg/repository"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	created := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO users (email, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		u.Email, u.PasswordHash, string(u.Role), created)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		return 0, err
	}
	u.CreatedAt = fromMillis(created)

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepo) CountUsers(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	var created int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	u.Role = models.Role(role)
	u.CreatedAt = fromMillis(created)

	return &u, nil
}
