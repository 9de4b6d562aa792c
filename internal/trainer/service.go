package trainer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
)

type CreateRequest struct {
	LastName    string
	FirstName   string
	MiddleName  string
	Age         int
	Description string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Trainer, error)
	GetByID(ctx context.Context, id string) (*Trainer, error)
	GetByName(ctx context.Context, fullName string) (*Trainer, error)
	List(ctx context.Context) ([]*Trainer, error)
	Delete(ctx context.Context, id string) error
	DeleteByName(ctx context.Context, fullName string) error

	AddAvailability(ctx context.Context, trainerID string, dayOfWeek int, slot string) (*Availability, error)
	// AddAvailabilityRange adds every slot from start to end inclusive for one
	// weekday. Slots are attempted one by one; existing entries are skipped.
	AddAvailabilityRange(ctx context.Context, trainerID string, dayOfWeek int, start, end string) (inventory.RangeResult, error)
	RemoveAvailability(ctx context.Context, id string) error
	ListAvailability(ctx context.Context, trainerID string) ([]*Availability, error)
	// Scheduled lists trainers whose weekly schedule covers the date's weekday at slot.
	// It says nothing about whether they are already booked.
	Scheduled(ctx context.Context, date time.Time, slot string) ([]Brief, error)
}

type service struct {
	repo        Repository
	inventory   inventory.Service
	invalidator cache.Invalidator
}

func NewService(repo Repository, inv inventory.Service, invalidator cache.Invalidator) Service {
	return &service{repo: repo, inventory: inv, invalidator: invalidator}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Trainer, error) {
	t := &Trainer{
		LastName:    strings.TrimSpace(req.LastName),
		FirstName:   strings.TrimSpace(req.FirstName),
		MiddleName:  strings.TrimSpace(req.MiddleName),
		Age:         req.Age,
		Description: strings.TrimSpace(req.Description),
	}
	if t.LastName == "" || t.FirstName == "" {
		return nil, ErrEmptyName
	}
	if t.Age <= 0 {
		return nil, ErrInvalidAge
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Trainer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, fullName string) (*Trainer, error) {
	return s.repo.GetByFullName(ctx, joinNonEmpty(strings.Fields(fullName)...))
}

func (s *service) List(ctx context.Context) ([]*Trainer, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("trainer_id", id).Msg("trainer removed; bookings keep their lane without a trainer")
	s.invalidator.InvalidateAll(ctx)
	return nil
}

func (s *service) DeleteByName(ctx context.Context, fullName string) error {
	t, err := s.GetByName(ctx, fullName)
	if err != nil {
		return err
	}
	return s.Delete(ctx, t.ID)
}

func (s *service) AddAvailability(ctx context.Context, trainerID string, dayOfWeek int, slot string) (*Availability, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDay
	}
	t, err := s.repo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.inventory.ResolveTimeSlot(ctx, slot)
	if err != nil {
		return nil, err
	}

	a := &Availability{TrainerID: t.ID, TrainerName: t.FullName(), DayOfWeek: dayOfWeek, Time: resolved}
	if err := s.repo.CreateAvailability(ctx, a); err != nil {
		return nil, err
	}
	s.invalidator.InvalidateAll(ctx)
	return a, nil
}

func (s *service) AddAvailabilityRange(ctx context.Context, trainerID string, dayOfWeek int, start, end string) (inventory.RangeResult, error) {
	var res inventory.RangeResult
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return res, ErrInvalidDay
	}
	if _, err := s.repo.GetByID(ctx, trainerID); err != nil {
		return res, err
	}
	slots, err := s.inventory.SlotRange(ctx, start, end)
	if err != nil {
		return res, err
	}

	res.Requested = len(slots)
	defer func() {
		if res.Applied > 0 {
			s.invalidator.InvalidateAll(ctx)
		}
	}()

	for _, slot := range slots {
		a := &Availability{TrainerID: trainerID, DayOfWeek: dayOfWeek, Time: slot}
		err := s.repo.CreateAvailability(ctx, a)
		switch {
		case err == nil:
			res.Applied++
		case errors.Is(err, ErrAvailabilityExists):
			log.Debug().Str("trainer_id", trainerID).Int("day", dayOfWeek).Str("slot", slot).Msg("availability already present")
		default:
			return res, err
		}
	}
	return res, nil
}

func (s *service) RemoveAvailability(ctx context.Context, id string) error {
	if err := s.repo.DeleteAvailability(ctx, id); err != nil {
		return err
	}
	s.invalidator.InvalidateAll(ctx)
	return nil
}

func (s *service) ListAvailability(ctx context.Context, trainerID string) ([]*Availability, error) {
	if trainerID != "" {
		if _, err := s.repo.GetByID(ctx, trainerID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListAvailability(ctx, trainerID)
}

func (s *service) Scheduled(ctx context.Context, date time.Time, slot string) ([]Brief, error) {
	normalized, err := inventory.NormalizeSlot(slot)
	if err != nil {
		return nil, err
	}
	return s.repo.Scheduled(ctx, day.Weekday(date), normalized)
}
