package http

import (
	"github.com/nekogravitycat/pool-booking-backend/internal/availability"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	"github.com/nekogravitycat/pool-booking-backend/internal/trainer"
	trainerHttp "github.com/nekogravitycat/pool-booking-backend/internal/trainer/http"
)

type FreeLanesResponse struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Lanes []int  `json:"lanes"`
}

type FreeTrainersResponse struct {
	Date     string                   `json:"date"`
	Time     string                   `json:"time"`
	Trainers []trainerHttp.TrainerTag `json:"trainers"`
}

func newTrainerTags(list []trainer.Brief) []trainerHttp.TrainerTag {
	tags := make([]trainerHttp.TrainerTag, len(list))
	for i, t := range list {
		tags[i] = trainerHttp.TrainerTag{ID: t.ID, Name: t.Name}
	}
	return tags
}

type WeekRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type CellResponse struct {
	Date      string              `json:"date"`
	Time      string              `json:"time"`
	Status    availability.Status `json:"status"`
	Closed    bool                `json:"closed"`
	FreeLanes []int               `json:"free_lanes"`
	MyLanes   []int               `json:"my_lanes"`
}

type RowResponse struct {
	Time  string         `json:"time"`
	Cells []CellResponse `json:"cells"`
}

type WeekResponse struct {
	Dates []string      `json:"dates"`
	Lanes []int         `json:"lanes"`
	Rows  []RowResponse `json:"rows"`
}

func NewWeekResponse(w *availability.Week) WeekResponse {
	resp := WeekResponse{
		Dates: make([]string, len(w.Dates)),
		Lanes: w.Lanes,
		Rows:  make([]RowResponse, len(w.Times)),
	}
	for i, d := range w.Dates {
		resp.Dates[i] = day.Format(d)
	}
	for i, slot := range w.Times {
		row := RowResponse{Time: slot, Cells: make([]CellResponse, len(w.Cells[i]))}
		for j, c := range w.Cells[i] {
			row.Cells[j] = CellResponse{
				Date:      day.Format(c.Date),
				Time:      c.Time,
				Status:    c.Status,
				Closed:    c.Closed,
				FreeLanes: c.FreeLanes,
				MyLanes:   c.MyLanes,
			}
		}
		resp.Rows[i] = row
	}
	return resp
}
