package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rankstage/rankstage/internal/identity/entity"
)

const userColumns = `id, email, full_name, bio, location, avatar_url, role, status, updated_at, deleted_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	var (
		user      entity.User
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Bio,
		&user.Location,
		&user.AvatarURL,
		&user.Role,
		&user.Status,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	if deletedAt.Valid {
		user.DeletedAt = &deletedAt.Time
	}

	return &user, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	user, err := scanUser(s.conn.QueryRow(ctx, query, email))
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	user, err := scanUser(s.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserCredentialInfo(ctx context.Context, email string) (_ *entity.UserCredentialInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialInfo")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT u.id, u.email, u.full_name, u.role, u.status, c.password
		FROM users u
		JOIN user_credentials c ON c.user_id = u.id
		WHERE u.email = $1 AND u.deleted_at IS NULL`

	var info entity.UserCredentialInfo
	err = s.conn.QueryRow(ctx, query, email).Scan(
		&info.ID,
		&info.Email,
		&info.FullName,
		&info.Role,
		&info.Status,
		&info.Password,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

// orderableColumns guards ORDER BY against injection; anything else falls
// back to created_at.
var orderableColumns = map[string]string{
	"email":      "email",
	"full_name":  "full_name",
	"status":     "status",
	"role":       "role",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (s *DB) GetUserList(ctx context.Context, filter entity.UserListFilterData) (_ []entity.User, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetUserList")
	defer func() { s.endSpan(span, err) }()

	conds := []string{"deleted_at IS NULL"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.IsFilterBySearch {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(email ILIKE %s OR full_name ILIKE %s)", p, p))
	}
	if filter.IsFilterByStatus {
		conds = append(conds, fmt.Sprintf("status = ANY(%s)", arg(filter.Statuses)))
	}
	if filter.IsFilterByRole {
		conds = append(conds, fmt.Sprintf("role = %s", arg(int16(filter.Role))))
	}
	if !filter.DateFrom.IsZero() {
		conds = append(conds, fmt.Sprintf("created_at >= %s", arg(filter.DateFrom)))
	}
	if !filter.DateTo.IsZero() {
		conds = append(conds, fmt.Sprintf("created_at <= %s", arg(filter.DateTo)))
	}

	where := strings.Join(conds, " AND ")

	var total int64
	if err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	orderBy, ok := orderableColumns[filter.OrderBy]
	if !ok {
		orderBy = "created_at"
	}
	direction := "ASC"
	if filter.OrderDirection == "desc" {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE %s ORDER BY %s %s LIMIT %s OFFSET %s`,
		userColumns, where, orderBy, direction,
		arg(filter.Size), arg((filter.Page-1)*filter.Size),
	)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, s.mapError(err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return users, total, nil
}
