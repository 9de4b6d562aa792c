package group

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

// Repository stores group records only; their cells live in the booking ledger.
type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	// List returns the groups of ownerID, or every group when ownerID is empty.
	List(ctx context.Context, ownerID string) ([]*Group, error)
	UpdateDate(ctx context.Context, id string, date time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteEmpty removes groups that have no cells left, as happens after a
	// lane or time slot is removed.
	DeleteEmpty(ctx context.Context) (int, error)
}

const ownerNameExpr = `CASE WHEN u.role = 'org' AND u.organization_name <> '' THEN u.organization_name
	ELSE COALESCE(NULLIF(TRIM(u.last_name || ' ' || u.first_name), ''), u.username) END`

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *pgxRepository) selectGroups() squirrel.SelectBuilder {
	return r.builder().Select("g.id", "g.owner_id", ownerNameExpr, "g.slot_date", "g.created_at", "g.updated_at").
		From("public.booking_groups g").
		Join("public.users u ON u.id = g.owner_id")
}

func scanGroup(row pgx.Row) (*Group, error) {
	var g Group
	if err := row.Scan(&g.ID, &g.OwnerID, &g.OwnerName, &g.Date, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *pgxRepository) Create(ctx context.Context, g *Group) error {
	query, args, err := r.builder().Insert("public.booking_groups").
		Columns("owner_id", "slot_date").
		Values(g.OwnerID, g.Date).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create group query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return fmt.Errorf("create group failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Group, error) {
	query, args, err := r.selectGroups().Where(squirrel.Eq{"g.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get group query failed: %w", err)
	}

	g, err := scanGroup(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get group failed: %w", err)
	}
	return g, nil
}

func (r *pgxRepository) List(ctx context.Context, ownerID string) ([]*Group, error) {
	query := r.selectGroups().OrderBy("g.slot_date DESC", "g.created_at DESC")
	if ownerID != "" {
		query = query.Where(squirrel.Eq{"g.owner_id": ownerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list groups query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups failed: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Group, error) {
		return scanGroup(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan groups failed: %w", err)
	}
	return groups, nil
}

func (r *pgxRepository) UpdateDate(ctx context.Context, id string, date time.Time) error {
	query, args, err := r.builder().Update("public.booking_groups").
		Set("slot_date", date).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update group query failed: %w", err)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update group failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := r.builder().Delete("public.booking_groups").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete group query failed: %w", err)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete group failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgxRepository) DeleteEmpty(ctx context.Context) (int, error) {
	query, args, err := r.builder().Delete("public.booking_groups g").
		Where("NOT EXISTS (SELECT 1 FROM public.bookings b WHERE b.group_id = g.id)").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete empty groups query failed: %w", err)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete empty groups failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
