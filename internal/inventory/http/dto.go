package http

import "github.com/nekogravitycat/pool-booking-backend/internal/inventory"

type LaneResponse struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

func NewLaneResponse(l *inventory.Lane) LaneResponse {
	return LaneResponse{Number: l.Number, Name: l.Name}
}

type LaneURI struct {
	Number int `uri:"number" binding:"required,min=1"`
}

type CreateLaneRequest struct {
	Number int    `json:"number" binding:"required,min=1"`
	Name   string `json:"name" binding:"required,max=50"`
}

type TimeSlotURI struct {
	Time string `uri:"time" binding:"required"`
}

type CreateTimeSlotRequest struct {
	Time string `json:"time" binding:"required"`
}

type TimeSlotResponse struct {
	Time string `json:"time"`
}

type TimeSlotListResponse struct {
	Items []string `json:"items"`
}
