package booking

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
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByGroup(ctx context.Context, groupID string) (int, error)

	// LaneTaken and TrainerTaken look for a conflicting booking in the cell.
	// excludeID skips the booking being amended.
	LaneTaken(ctx context.Context, date time.Time, slot string, lane int, excludeID string) (bool, error)
	TrainerTaken(ctx context.Context, date time.Time, slot, trainerID, excludeID string) (bool, error)

	// LockCell serializes writers of one (date, slot) cell until the transaction ends.
	LockCell(ctx context.Context, date time.Time, slot string) error
}

const (
	laneConstraint    = "bookings_lane_key"
	trainerConstraint = "bookings_trainer_key"
)

// ownerNameExpr mirrors user.User.DisplayName.
const ownerNameExpr = `CASE WHEN u.role = 'org' AND u.organization_name <> '' THEN u.organization_name
	ELSE COALESCE(NULLIF(TRIM(u.last_name || ' ' || u.first_name), ''), u.username) END`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// translateWriteError turns constraint failures of an insert or update into
// domain errors. A writer that passed the pre-checks but lost the race at
// commit lands here.
func translateWriteError(err error) error {
	if constraint, ok := db.UniqueViolation(err); ok {
		if constraint == trainerConstraint {
			return ErrTrainerTaken
		}
		return ErrLaneTaken
	}
	if _, ok := db.ForeignKeyViolation(err); ok {
		return ErrReferenceGone
	}
	return nil
}

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.owner_id", ownerNameExpr, "b.group_id",
		"b.slot_date", "to_char(b.slot_time, 'HH24:MI')", "b.lane_number",
		"b.trainer_id", "t.full_name", "b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.users u ON u.id = b.owner_id").
		LeftJoin("public.trainers t ON t.id = b.trainer_id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.OwnerID, &b.OwnerName, &b.GroupID,
		&b.Date, &b.Time, &b.Lane,
		&b.TrainerID, &b.TrainerName, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("owner_id", "group_id", "slot_date", "slot_time", "lane_number", "trainer_id").
		Values(b.OwnerID, b.GroupID, b.Date, squirrel.Expr("?::time", b.Time), b.Lane, b.TrainerID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if domainErr := translateWriteError(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings().Column("count(*) OVER() AS total_count")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"b.owner_id": filter.OwnerID})
	}
	if filter.GroupID != "" {
		query = query.Where(squirrel.Eq{"b.group_id": filter.GroupID})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"b.slot_date": *filter.Date})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"b.slot_date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"b.slot_date": *filter.To})
	}

	query = query.OrderBy("b.slot_date", "b.slot_time", "b.lane_number")

	if filter.PageSize > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	var total int
	bookings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Booking, error) {
		return scanBooking(row, &total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan bookings failed: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	query, args, err := psql.Update("public.bookings").
		Set("slot_date", b.Date).
		Set("slot_time", squirrel.Expr("?::time", b.Time)).
		Set("lane_number", b.Lane).
		Set("trainer_id", b.TrainerID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	err = db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if domainErr := translateWriteError(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := psql.Delete("public.bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete booking query failed: %w", err)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete booking failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *pgxRepository) DeleteByGroup(ctx context.Context, groupID string) (int, error) {
	query, args, err := psql.Delete("public.bookings").Where(squirrel.Eq{"group_id": groupID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete group bookings query failed: %w", err)
	}

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete group bookings failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgxRepository) exists(ctx context.Context, where squirrel.Sqlizer, excludeID string) (bool, error) {
	sub := psql.Select("1").From("public.bookings").Where(where)
	if excludeID != "" {
		sub = sub.Where(squirrel.NotEq{"id": excludeID})
	}
	query, args, err := sub.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build booking conflict query failed: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking conflict failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) LaneTaken(ctx context.Context, date time.Time, slot string, lane int, excludeID string) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"slot_date": date, "lane_number": lane},
		squirrel.Expr("slot_time = ?::time", slot),
	}, excludeID)
}

func (r *pgxRepository) TrainerTaken(ctx context.Context, date time.Time, slot, trainerID, excludeID string) (bool, error) {
	return r.exists(ctx, squirrel.And{
		squirrel.Eq{"slot_date": date, "trainer_id": trainerID},
		squirrel.Expr("slot_time = ?::time", slot),
	}, excludeID)
}

func (r *pgxRepository) LockCell(ctx context.Context, date time.Time, slot string) error {
	return db.LockKey(ctx, db.Conn(ctx, r.pool), db.CellLockKey(date, slot))
}
