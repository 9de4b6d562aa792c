package http

import (
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/group"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/day"
	userHttp "github.com/nekogravitycat/pool-booking-backend/internal/user/http"
)

type GroupResponse struct {
	ID        string           `json:"id"`
	Owner     userHttp.UserTag `json:"owner"`
	Date      string           `json:"date"`
	Times     []string         `json:"times"`
	Lanes     []int            `json:"lanes"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewGroupResponse(g *group.Group) GroupResponse {
	return GroupResponse{
		ID:        g.ID,
		Owner:     userHttp.UserTag{ID: g.OwnerID, Name: g.OwnerName},
		Date:      day.Format(g.Date),
		Times:     g.Times,
		Lanes:     g.Lanes,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

type ListGroupsRequest struct {
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
}

// ShapeRequest selects the cells of a group: either explicit times or a
// start..end slot range, crossed with the lanes.
type ShapeRequest struct {
	Date  string   `json:"date" binding:"required,datetime=2006-01-02"`
	Times []string `json:"times" binding:"required_without=Start,dive,required"`
	Start string   `json:"start" binding:"required_without=Times"`
	End   string   `json:"end" binding:"required_with=Start"`
	Lanes []int    `json:"lanes" binding:"required,min=1,dive,min=1"`
}

func (r ShapeRequest) toShape(date time.Time) group.Shape {
	return group.Shape{Date: date, Times: r.Times, Start: r.Start, End: r.End, Lanes: r.Lanes}
}
