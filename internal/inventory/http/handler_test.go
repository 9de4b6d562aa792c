package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/pool-booking-backend/internal/api"
	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking"
	"github.com/nekogravitycat/pool-booking-backend/internal/booking/bookingtest"
	inventoryHttp "github.com/nekogravitycat/pool-booking-backend/internal/inventory/http"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

type testServer struct {
	env    *bookingtest.Env
	jwt    *auth.JWTManager
	router *gin.Engine
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	env := bookingtest.NewEnv()
	jwt := auth.NewJWTManager("secret", time.Hour)

	r := gin.New()
	inventoryHttp.RegisterRoutes(r.Group("/v1"), inventoryHttp.NewHandler(env.Inventory), auth.AuthRequired(jwt), api.RequireAdmin(env.Identities))
	return &testServer{env: env, jwt: jwt, router: r}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken(userID, string(s.env.Identities[userID].Role))
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func requireKind(t *testing.T, w *httptest.ResponseRecorder, code int, kind string) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, kind, resp.Kind)
}

func TestLaneHandlers(t *testing.T) {
	s := newTestServer()
	admin := s.env.Identities.Add(user.RoleAdmin, true)
	swimmer := s.env.Identities.Add(user.RoleUser, true)

	t.Run("Create: Success", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/v1/lanes", inventoryHttp.CreateLaneRequest{Number: 5, Name: "Training"}, s.token(t, admin))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp inventoryHttp.LaneResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, inventoryHttp.LaneResponse{Number: 5, Name: "Training"}, resp)
	})

	t.Run("Create: Rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			userID   string
			payload  inventoryHttp.CreateLaneRequest
			wantCode int
			wantKind string
		}{
			{"Not an admin", swimmer, inventoryHttp.CreateLaneRequest{Number: 6, Name: "Kids"}, http.StatusForbidden, "forbidden"},
			{"Duplicate number", admin, inventoryHttp.CreateLaneRequest{Number: 1, Name: "Again"}, http.StatusConflict, "duplicate_entity"},
			{"Zero number", admin, inventoryHttp.CreateLaneRequest{Number: 0, Name: "Zero"}, http.StatusBadRequest, "invalid"},
			{"Missing name", admin, inventoryHttp.CreateLaneRequest{Number: 6}, http.StatusBadRequest, "invalid"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				requireKind(t, s.do(t, http.MethodPost, "/v1/lanes", tt.payload, s.token(t, tt.userID)), tt.wantCode, tt.wantKind)
			})
		}
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/v1/lanes", inventoryHttp.CreateLaneRequest{Number: 6, Name: "Kids"}, "").Code)
	})

	t.Run("List: Public", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/v1/lanes", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp response.PageResponse[inventoryHttp.LaneResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, bookingtest.Lanes+1)
		assert.Equal(t, 5, resp.Items[bookingtest.Lanes].Number)
	})

	t.Run("Delete: Cascades to bookings", func(t *testing.T) {
		_, err := s.env.Service.Reserve(context.Background(), booking.ReserveRequest{
			OwnerID: swimmer, Date: time.Date(2030, 3, 11, 0, 0, 0, 0, time.UTC), Time: "09:00", Lane: 2,
		})
		require.NoError(t, err)
		require.Equal(t, 1, s.env.Bookings.Count())

		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/v1/lanes/2", nil, s.token(t, swimmer)).Code)
		assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/v1/lanes/2", nil, s.token(t, admin)).Code)
		assert.Zero(t, s.env.Bookings.Count())

		requireKind(t, s.do(t, http.MethodDelete, "/v1/lanes/2", nil, s.token(t, admin)), http.StatusNotFound, "not_found")
		requireKind(t, s.do(t, http.MethodDelete, "/v1/lanes/two", nil, s.token(t, admin)), http.StatusBadRequest, "invalid")
	})
}

func TestTimeSlotHandlers(t *testing.T) {
	s := newTestServer()
	admin := s.env.Identities.Add(user.RoleAdmin, true)
	swimmer := s.env.Identities.Add(user.RoleUser, true)

	t.Run("Create", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/v1/timeslots", inventoryHttp.CreateTimeSlotRequest{Time: "8:00"}, s.token(t, admin))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp inventoryHttp.TimeSlotResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "08:00", resp.Time)

		tests := []struct {
			name     string
			userID   string
			slot     string
			wantCode int
			wantKind string
		}{
			{"Not an admin", swimmer, "12:00", http.StatusForbidden, "forbidden"},
			{"Duplicate", admin, "09:00:00", http.StatusConflict, "duplicate_entity"},
			{"Malformed", admin, "noon", http.StatusBadRequest, "invalid"},
			{"Seconds", admin, "12:00:30", http.StatusBadRequest, "invalid"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := s.do(t, http.MethodPost, "/v1/timeslots", inventoryHttp.CreateTimeSlotRequest{Time: tt.slot}, s.token(t, tt.userID))
				requireKind(t, w, tt.wantCode, tt.wantKind)
			})
		}
	})

	t.Run("List: Sorted and public", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/v1/timeslots", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp inventoryHttp.TimeSlotListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00"}, resp.Items)
	})

	t.Run("Delete", func(t *testing.T) {
		s.env.Invalidations.Reset()
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/v1/timeslots/08:00", nil, s.token(t, swimmer)).Code)
		assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/v1/timeslots/8:00", nil, s.token(t, admin)).Code)
		requireKind(t, s.do(t, http.MethodDelete, "/v1/timeslots/08:00", nil, s.token(t, admin)), http.StatusNotFound, "not_found")
		// Only the successful removal drops the cached days.
		assert.Equal(t, 1, s.env.Invalidations.All())
	})
}
