package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	SetConfirmed(ctx context.Context, id string, confirmed bool) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Delete(ctx context.Context, id string) error
}

var userColumns = []string{
	"u.id", "u.username", "u.email", "u.password_hash", "u.role",
	"u.first_name", "u.last_name", "u.middle_name", "u.organization_name",
	"u.phone", "u.gender", "u.is_confirmed", "u.created_at", "u.last_login_at",
}

var sortColumns = map[string]string{
	"username":   "u.username",
	"email":      "u.email",
	"created_at": "u.created_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	var u User
	dest := []any{
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.MiddleName, &u.OrganizationName,
		&u.Phone, &u.Gender, &u.IsConfirmed, &u.CreatedAt, &u.LastLoginAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgxRepository) getBy(ctx context.Context, column string, value any) (*User, error) {
	query, args, err := r.builder().Select(userColumns...).
		From("public.users u").
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query failed: %w", err)
	}

	u, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s failed: %w", column, err)
	}
	return u, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getBy(ctx, "u.id", id)
}

func (r *pgxRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getBy(ctx, "u.username", username)
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "u.email", email)
}

func (r *pgxRepository) Create(ctx context.Context, u *User) error {
	query, args, err := r.builder().Insert("public.users").
		Columns(
			"username", "email", "password_hash", "role",
			"first_name", "last_name", "middle_name", "organization_name",
			"phone", "gender", "is_confirmed",
		).
		Values(
			u.Username, u.Email, u.PasswordHash, u.Role,
			u.FirstName, u.LastName, u.MiddleName, u.OrganizationName,
			u.Phone, u.Gender, u.IsConfirmed,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		if constraint, ok := db.UniqueViolation(err); ok {
			if constraint == "users_email_key" {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return r.update(ctx, id, "last_login_at", t)
}

func (r *pgxRepository) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	return r.update(ctx, id, "is_confirmed", confirmed)
}

func (r *pgxRepository) update(ctx context.Context, id, column string, value any) error {
	query, args, err := r.builder().Update("public.users").
		Set(column, value).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user %s failed: %w", column, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	query := r.builder().Select(append(userColumns, "count(*) OVER() AS total_count")...).
		From("public.users u")

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"u.username": like},
			squirrel.ILike{"u.email": like},
			squirrel.ILike{"u.last_name": like},
			squirrel.ILike{"u.organization_name": like},
		})
	}
	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"u.role": filter.Role})
	}
	if filter.IsConfirmed != nil {
		query = query.Where(squirrel.Eq{"u.is_confirmed": *filter.IsConfirmed})
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "u.created_at"
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" || filter.SortOrder == "asc" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64((filter.Page - 1) * filter.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int
	for rows.Next() {
		u, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users failed: %w", err)
	}

	return users, total, nil
}

// Delete removes the user row. Bookings and groups owned by the user go with it.
func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.builder().Delete("public.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
