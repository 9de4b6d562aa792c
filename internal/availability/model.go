package availability

import "time"

// Status classifies one (date, time slot) cell for a viewer.
type Status string

const (
	// StatusMine marks cells where the viewer holds at least one lane.
	StatusMine        Status = "mine"
	StatusUnavailable Status = "unavailable"
	StatusFree        Status = "free"
)

// Occupancy is one booked lane of a cell.
type Occupancy struct {
	Time      string `json:"time"`
	Lane      int    `json:"lane"`
	OwnerID   string `json:"owner_id"`
	TrainerID string `json:"trainer_id,omitempty"`
}

// DayState is everything date-specific the availability math needs.
// It is cached per date and dropped whenever a write touches the date.
type DayState struct {
	Date     string      `json:"date"`
	Closed   []string    `json:"closed"`
	Occupied []Occupancy `json:"occupied"`
}

func (s *DayState) closed(slot string) bool {
	for _, c := range s.Closed {
		if c == slot {
			return true
		}
	}
	return false
}

func (s *DayState) at(slot string) []Occupancy {
	var out []Occupancy
	for _, o := range s.Occupied {
		if o.Time == slot {
			out = append(out, o)
		}
	}
	return out
}

// Cell is one entry of the week grid.
type Cell struct {
	Date      time.Time
	Time      string
	Status    Status
	Closed    bool
	FreeLanes []int
	MyLanes   []int
}

// Week is a Monday..Sunday grid; Cells[i][j] is Times[i] on Dates[j].
type Week struct {
	Dates []time.Time
	Times []string
	Lanes []int
	Cells [][]Cell
}
