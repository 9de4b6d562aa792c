package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
)

// Repository stores lanes and time slots. Time slots travel as "HH:MM" strings.
type Repository interface {
	ListLanes(ctx context.Context) ([]*Lane, error)
	GetLane(ctx context.Context, number int) (*Lane, error)
	CreateLane(ctx context.Context, lane *Lane) error
	DeleteLane(ctx context.Context, number int) error

	ListTimeSlots(ctx context.Context) ([]string, error)
	TimeSlotExists(ctx context.Context, slot string) (bool, error)
	CreateTimeSlot(ctx context.Context, slot string) error
	DeleteTimeSlot(ctx context.Context, slot string) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ListLanes(ctx context.Context) ([]*Lane, error) {
	query, args, err := psql.Select("number", "name").
		From("public.lanes").
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lanes query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lanes failed: %w", err)
	}
	defer rows.Close()

	var lanes []*Lane
	for rows.Next() {
		var l Lane
		if err := rows.Scan(&l.Number, &l.Name); err != nil {
			return nil, fmt.Errorf("scan lane failed: %w", err)
		}
		lanes = append(lanes, &l)
	}
	return lanes, rows.Err()
}

func (r *pgxRepository) GetLane(ctx context.Context, number int) (*Lane, error) {
	query, args, err := psql.Select("number", "name").
		From("public.lanes").
		Where(squirrel.Eq{"number": number}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get lane query failed: %w", err)
	}

	var l Lane
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&l.Number, &l.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLaneNotFound
		}
		return nil, fmt.Errorf("get lane failed: %w", err)
	}
	return &l, nil
}

func (r *pgxRepository) CreateLane(ctx context.Context, lane *Lane) error {
	query, args, err := psql.Insert("public.lanes").
		Columns("number", "name").
		Values(lane.Number, lane.Name).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create lane query failed: %w", err)
	}

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrLaneExists
		}
		return fmt.Errorf("create lane failed: %w", err)
	}
	return nil
}

// DeleteLane removes the lane; its bookings are removed by the foreign key cascade.
func (r *pgxRepository) DeleteLane(ctx context.Context, number int) error {
	query, args, err := psql.Delete("public.lanes").
		Where(squirrel.Eq{"number": number}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lane query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete lane failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrLaneNotFound
	}
	return nil
}

func (r *pgxRepository) ListTimeSlots(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("to_char(slot_time, 'HH24:MI')").
		From("public.timeslots").
		OrderBy("slot_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list time slots query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time slots failed: %w", err)
	}
	slots, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan time slots failed: %w", err)
	}
	return slots, nil
}

func (r *pgxRepository) TimeSlotExists(ctx context.Context, slot string) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.timeslots").
		Where("slot_time = ?::time", slot).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build time slot exists query failed: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check time slot failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) CreateTimeSlot(ctx context.Context, slot string) error {
	query, args, err := psql.Insert("public.timeslots").
		Columns("slot_time").
		Values(squirrel.Expr("?::time", slot)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create time slot query failed: %w", err)
	}

	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrTimeSlotExists
		}
		return fmt.Errorf("create time slot failed: %w", err)
	}
	return nil
}

// DeleteTimeSlot removes the slot together with every booking, weekly
// availability entry and closed slot that references it.
func (r *pgxRepository) DeleteTimeSlot(ctx context.Context, slot string) error {
	query, args, err := psql.Delete("public.timeslots").
		Where("slot_time = ?::time", slot).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete time slot query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete time slot failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrTimeSlotNotFound
	}
	return nil
}
