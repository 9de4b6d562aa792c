package http

import (
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/inventory"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
)

type TrainerResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	ShortName   string    `json:"short_name"`
	LastName    string    `json:"last_name"`
	FirstName   string    `json:"first_name"`
	MiddleName  string    `json:"middle_name,omitempty"`
	Age         int       `json:"age"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTrainerResponse(t *trainer.Trainer) TrainerResponse {
	return TrainerResponse{
		ID:          t.ID,
		FullName:    t.FullName(),
		ShortName:   t.ShortName(),
		LastName:    t.LastName,
		FirstName:   t.FirstName,
		MiddleName:  t.MiddleName,
		Age:         t.Age,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

// TrainerTag is a brief representation of a trainer.
type TrainerTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateTrainerRequest struct {
	LastName    string `json:"last_name" binding:"required,max=50"`
	FirstName   string `json:"first_name" binding:"required,max=50"`
	MiddleName  string `json:"middle_name" binding:"omitempty,max=50"`
	Age         int    `json:"age" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

type AvailabilityResponse struct {
	ID        string     `json:"id"`
	Trainer   TrainerTag `json:"trainer"`
	DayOfWeek int        `json:"day_of_week"`
	Time      string     `json:"time"`
}

func NewAvailabilityResponse(a *trainer.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:        a.ID,
		Trainer:   TrainerTag{ID: a.TrainerID, Name: a.TrainerName},
		DayOfWeek: a.DayOfWeek,
		Time:      a.Time,
	}
}

type AddAvailabilityRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	Time      string `json:"time" binding:"required"`
}

type AddAvailabilityRangeRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	Start     string `json:"start" binding:"required"`
	End       string `json:"end" binding:"required"`
}

// RangeResponse reports how many slots of a range were written.
type RangeResponse struct {
	Requested int               `json:"requested"`
	Applied   int               `json:"applied"`
	Outcome   inventory.Outcome `json:"outcome"`
}

func NewRangeResponse(r inventory.RangeResult) RangeResponse {
	return RangeResponse{Requested: r.Requested, Applied: r.Applied, Outcome: r.Outcome()}
}

type AvailabilityURI struct {
	ID             string `uri:"id" binding:"required,uuid"`
	AvailabilityID string `uri:"availability_id" binding:"required,uuid"`
}
