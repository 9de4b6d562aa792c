package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/pool-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking/bookingtest"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// 2030-03-11 is a Monday.
var monday = time.Date(2030, 3, 11, 0, 0, 0, 0, time.UTC)

type testServer struct {
	env    *bookingtest.Env
	jwt    *auth.JWTManager
	router *gin.Engine
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	env := bookingtest.NewEnv()
	jwt := auth.NewJWTManager("secret", time.Hour)

	svc := availability.NewService(env.Inventory, env.Service, env.Closures, env.TrainerSvc, cache.NewNop(), time.Minute)
	r := gin.New()
	availabilityHttp.RegisterRoutes(r.Group("/v1"), availabilityHttp.NewHandler(svc), auth.AuthRequired(jwt))
	return &testServer{env: env, jwt: jwt, router: r}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken(userID, string(s.env.Identities[userID].Role))
	require.NoError(t, err)
	return tok
}

func (s *testServer) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) reserve(t *testing.T, owner string, date time.Time, slot string, lane int, trainerID *string) {
	t.Helper()
	_, err := s.env.Service.Reserve(context.Background(), booking.ReserveRequest{
		OwnerID: owner, Date: date, Time: slot, Lane: lane, TrainerID: trainerID,
	})
	require.NoError(t, err)
}

func TestAvailabilityHandlers_Queries(t *testing.T) {
	ctx := context.Background()
	s := newTestServer()
	owner := s.env.Identities.Add(user.RoleUser, true)
	ivan := s.env.AddScheduledTrainer("Petrov", "Ivan")
	oleg := s.env.AddScheduledTrainer("Sidorov", "Oleg")

	s.reserve(t, owner, monday, "10:00", 2, &ivan)
	_, err := s.env.Closures.Close(ctx, monday, "11:00", "maintenance")
	require.NoError(t, err)

	t.Run("Free lanes", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
			want  []int
		}{
			{"One lane booked", "date=2030-03-11&time=10:00", []int{1, 3, 4}},
			{"Unpadded slot", "date=2030-03-11&time=9:00", []int{1, 2, 3, 4}},
			{"Closed slot", "date=2030-03-11&time=11:00", []int{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := s.get("/v1/availability/lanes?"+tt.query, "")
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())

				var resp availabilityHttp.FreeLanesResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "2030-03-11", resp.Date)
				assert.Equal(t, tt.want, resp.Lanes)
			})
		}
	})

	t.Run("Free trainers", func(t *testing.T) {
		w := s.get("/v1/availability/trainers?date=2030-03-11&time=10:00", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp availabilityHttp.FreeTrainersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "10:00", resp.Time)
		require.Len(t, resp.Trainers, 1)
		assert.Equal(t, oleg, resp.Trainers[0].ID)
	})

	t.Run("Rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			path     string
			wantCode int
			wantKind string
		}{
			{"Missing time", "/v1/availability/lanes?date=2030-03-11", http.StatusBadRequest, "invalid"},
			{"Impossible date", "/v1/availability/lanes?date=2030-02-30&time=10:00", http.StatusBadRequest, "invalid"},
			{"Unknown slot", "/v1/availability/lanes?date=2030-03-11&time=06:00", http.StatusNotFound, "not_found"},
			{"Trainers without date", "/v1/availability/trainers?time=10:00", http.StatusBadRequest, "invalid"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := s.get(tt.path, "")
				require.Equal(t, tt.wantCode, w.Code, w.Body.String())

				var resp response.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.EqualValues(t, tt.wantKind, resp.Kind)
			})
		}
	})
}

func TestAvailabilityHandlers_Week(t *testing.T) {
	ctx := context.Background()
	s := newTestServer()
	viewer := s.env.Identities.Add(user.RoleUser, true)
	other := s.env.Identities.Add(user.RoleUser, true)
	tuesday, wednesday := monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 2)

	s.reserve(t, viewer, monday, "09:00", 3, nil)
	s.reserve(t, other, monday, "09:00", 1, nil)
	_, err := s.env.Closures.Close(ctx, tuesday, "10:00", "")
	require.NoError(t, err)
	for lane := 1; lane <= bookingtest.Lanes; lane++ {
		s.reserve(t, other, wednesday, "11:00", lane, nil)
	}

	w := s.get("/v1/availability/week?date=2030-03-13", s.token(t, viewer))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp availabilityHttp.WeekResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"2030-03-11", "2030-03-12", "2030-03-13", "2030-03-14", "2030-03-15", "2030-03-16", "2030-03-17"}, resp.Dates)
	assert.Equal(t, []int{1, 2, 3, 4}, resp.Lanes)
	require.Len(t, resp.Rows, len(bookingtest.Slots))
	for i, row := range resp.Rows {
		assert.Equal(t, bookingtest.Slots[i], row.Time)
		require.Len(t, row.Cells, 7)
	}

	tests := []struct {
		name      string
		row, col  int
		status    availability.Status
		closed    bool
		freeLanes []int
		myLanes   []int
	}{
		{"Own lane", 0, 0, availability.StatusMine, false, []int{2, 4}, []int{3}},
		{"Closed", 1, 1, availability.StatusUnavailable, true, []int{}, []int{}},
		{"Fully booked", 2, 2, availability.StatusUnavailable, false, []int{}, []int{}},
		{"Free", 1, 0, availability.StatusFree, false, []int{1, 2, 3, 4}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := resp.Rows[tt.row].Cells[tt.col]
			assert.Equal(t, resp.Dates[tt.col], c.Date)
			assert.Equal(t, resp.Rows[tt.row].Time, c.Time)
			assert.Equal(t, tt.status, c.Status)
			assert.Equal(t, tt.closed, c.Closed)
			assert.Equal(t, tt.freeLanes, c.FreeLanes)
			assert.Equal(t, tt.myLanes, c.MyLanes)
		})
	}

	t.Run("Another viewer sees the lane as taken", func(t *testing.T) {
		w := s.get("/v1/availability/week?date=2030-03-11", s.token(t, other))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp availabilityHttp.WeekResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []int{1}, resp.Rows[0].Cells[0].MyLanes)
		assert.Equal(t, availability.StatusMine, resp.Rows[0].Cells[0].Status)
	})

	t.Run("Rejections", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.get("/v1/availability/week", "").Code)
		assert.Equal(t, http.StatusBadRequest, s.get("/v1/availability/week?date=2030-02-30", s.token(t, viewer)).Code)
		assert.Equal(t, http.StatusBadRequest, s.get("/v1/availability/week?date=13.03.2030", s.token(t, viewer)).Code)
	})
}
