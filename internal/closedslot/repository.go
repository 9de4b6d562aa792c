package closedslot

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

type Repository interface {
	// Create must run inside a transaction; it holds the cell lock until commit.
	Create(ctx context.Context, cs *ClosedSlot) error
	// Delete returns the removed row, or nil when there was none.
	Delete(ctx context.Context, id string) (*ClosedSlot, error)
	Exists(ctx context.Context, date time.Time, slot string) (bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*ClosedSlot, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, cs *ClosedSlot) error {
	conn := db.Conn(ctx, r.pool)
	if err := db.LockKey(ctx, conn, db.CellLockKey(cs.Date, cs.Time)); err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.closed_slots").
		Columns("slot_date", "slot_time", "comment").
		Values(cs.Date, squirrel.Expr("?::time", cs.Time), cs.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create closed slot query failed: %w", err)
	}

	if err := conn.QueryRow(ctx, query, args...).Scan(&cs.ID, &cs.CreatedAt); err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrAlreadyClosed
		}
		return fmt.Errorf("create closed slot failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) (*ClosedSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.closed_slots").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, slot_date, to_char(slot_time, 'HH24:MI'), comment, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete closed slot query failed: %w", err)
	}

	var cs ClosedSlot
	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&cs.ID, &cs.Date, &cs.Time, &cs.Comment, &cs.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete closed slot failed: %w", err)
	}
	return &cs, nil
}

func (r *pgxRepository) Exists(ctx context.Context, date time.Time, slot string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.closed_slots").
		Where(squirrel.Eq{"slot_date": date}).
		Where("slot_time = ?::time", slot).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build closed slot exists query failed: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check closed slot failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*ClosedSlot, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "slot_date", "to_char(slot_time, 'HH24:MI')", "comment", "created_at").
		From("public.closed_slots").
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		OrderBy("slot_date", "slot_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list closed slots query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list closed slots failed: %w", err)
	}
	slots, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*ClosedSlot, error) {
		var cs ClosedSlot
		err := row.Scan(&cs.ID, &cs.Date, &cs.Time, &cs.Comment, &cs.CreatedAt)
		return &cs, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan closed slots failed: %w", err)
	}
	return slots, nil
}
