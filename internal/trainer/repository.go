package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/pool-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, t *Trainer) error
	GetByID(ctx context.Context, id string) (*Trainer, error)
	GetByFullName(ctx context.Context, fullName string) (*Trainer, error)
	List(ctx context.Context) ([]*Trainer, error)
	Delete(ctx context.Context, id string) error

	CreateAvailability(ctx context.Context, a *Availability) error
	DeleteAvailability(ctx context.Context, id string) error
	// ListAvailability lists the weekly schedule, of one trainer when trainerID is set.
	ListAvailability(ctx context.Context, trainerID string) ([]*Availability, error)
	// Scheduled lists trainers available on the weekday at the slot.
	Scheduled(ctx context.Context, dayOfWeek int, slot string) ([]Brief, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var trainerColumns = []string{"id", "last_name", "first_name", "middle_name", "age", "description", "created_at"}

func scanTrainer(row pgx.Row) (*Trainer, error) {
	var t Trainer
	err := row.Scan(&t.ID, &t.LastName, &t.FirstName, &t.MiddleName, &t.Age, &t.Description, &t.CreatedAt)
	return &t, err
}

func (r *pgxRepository) Create(ctx context.Context, t *Trainer) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.trainers").
		Columns("last_name", "first_name", "middle_name", "full_name", "age", "description").
		Values(t.LastName, t.FirstName, t.MiddleName, t.FullName(), t.Age, t.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create trainer query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrExists
		}
		return fmt.Errorf("create trainer failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Eq) (*Trainer, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(trainerColumns...).
		From("public.trainers").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get trainer query failed: %w", err)
	}

	t, err := scanTrainer(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get trainer failed: %w", err)
	}
	return t, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Trainer, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByFullName(ctx context.Context, fullName string) (*Trainer, error) {
	return r.getOne(ctx, squirrel.Eq{"full_name": fullName})
}

func (r *pgxRepository) List(ctx context.Context) ([]*Trainer, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(trainerColumns...).
		From("public.trainers").
		OrderBy("full_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list trainers query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trainers failed: %w", err)
	}
	defer rows.Close()

	var trainers []*Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trainer failed: %w", err)
		}
		trainers = append(trainers, t)
	}
	return trainers, rows.Err()
}

// Delete removes the trainer and the weekly schedule; bookings keep their row
// with the trainer cleared.
func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.trainers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete trainer query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete trainer failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateAvailability(ctx context.Context, a *Availability) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.trainer_availability").
		Columns("trainer_id", "day_of_week", "slot_time").
		Values(a.TrainerID, a.DayOfWeek, squirrel.Expr("?::time", a.Time)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create availability query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&a.ID); err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrAvailabilityExists
		}
		if _, ok := db.ForeignKeyViolation(err); ok {
			return ErrNotFound
		}
		return fmt.Errorf("create availability failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteAvailability(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.trainer_availability").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete availability query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete availability failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

func (r *pgxRepository) ListAvailability(ctx context.Context, trainerID string) ([]*Availability, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	q := psql.Select("a.id", "a.trainer_id", "t.full_name", "a.day_of_week", "to_char(a.slot_time, 'HH24:MI')").
		From("public.trainer_availability a").
		Join("public.trainers t ON t.id = a.trainer_id").
		OrderBy("t.full_name", "a.day_of_week", "a.slot_time")
	if trainerID != "" {
		q = q.Where(squirrel.Eq{"a.trainer_id": trainerID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list availability query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability failed: %w", err)
	}
	defer rows.Close()

	var out []*Availability
	for rows.Next() {
		var a Availability
		if err := rows.Scan(&a.ID, &a.TrainerID, &a.TrainerName, &a.DayOfWeek, &a.Time); err != nil {
			return nil, fmt.Errorf("scan availability failed: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *pgxRepository) Scheduled(ctx context.Context, dayOfWeek int, slot string) ([]Brief, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("t.id", "t.full_name").
		From("public.trainer_availability a").
		Join("public.trainers t ON t.id = a.trainer_id").
		Where(squirrel.Eq{"a.day_of_week": dayOfWeek}).
		Where("a.slot_time = ?::time", slot).
		OrderBy("t.full_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scheduled trainers query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scheduled trainers failed: %w", err)
	}
	briefs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Brief, error) {
		var b Brief
		err := row.Scan(&b.ID, &b.Name)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan scheduled trainers failed: %w", err)
	}
	return briefs, nil
}
