package sqlite

import (
	"io"
	"strings"
	"time"

	"log/slog"

	"github.com/internhub/internhub/internal/db"
	"github.com/internhub/internhub/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.InternshipRepo = (*SQLiteRepo)(nil)
var _ repository.ApplicationRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

// Timestamps are stored as unix milliseconds.
func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// window normalizes pagination to a LIMIT/OFFSET pair: page >= 1,
// limit clamped to 1..100.
func window(opts repository.ListOptions) (limit, offset int) {
	limit = opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// orderClause builds the ORDER BY for a list query. A '-' prefix on the sort
// field means descending; a column outside the whitelist keeps the default
// ordering (newest first, id as tie break). Columns are qualified with the
// table alias so joined queries stay unambiguous.
func orderClause(alias, sort string, allowed map[string]bool) string {
	if sort == "" {
		return alias + ".created_at DESC, " + alias + ".id DESC"
	}
	dir := "ASC"
	field := sort
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		field = strings.TrimPrefix(sort, "-")
	}
	if !allowed[field] {
		return alias + ".created_at DESC, " + alias + ".id DESC"
	}
	return alias + "." + field + " " + dir
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
