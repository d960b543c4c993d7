package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/roomreserve-backend/api/controllers"
	"github.com/angelmondragon/roomreserve-backend/internal/bookings"
	"github.com/angelmondragon/roomreserve-backend/internal/rooms"
	"github.com/angelmondragon/roomreserve-backend/internal/users"
	pkgAuth "github.com/angelmondragon/roomreserve-backend/pkg/auth"
	"github.com/angelmondragon/roomreserve-backend/pkg/auth/session"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"github.com/angelmondragon/roomreserve-backend/pkg/db"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	"github.com/angelmondragon/roomreserve-backend/pkg/logger"
)

var testConfig = &config.Config{
	App: config.AppConfig{Env: "test"},
	JWT: config.JWTConfig{Secret: "secret", Issuer: "roomreserve", ExpirationMinutes: 30},
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type testServer struct {
	handler http.Handler
	conn    *gorm.DB
}

func newTestServer(t *testing.T, checks map[string]controllers.Pinger) *testServer {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.EnsureSQLiteSchema(context.Background(), conn); err != nil {
		t.Fatalf("schema: %v", err)
	}
	client := db.NewFromGorm(conn)

	roomsSvc, err := rooms.NewService(rooms.ServiceParams{Repo: rooms.NewRepository(conn), TX: client})
	if err != nil {
		t.Fatalf("rooms service: %v", err)
	}
	bookingsSvc, err := bookings.NewService(bookings.ServiceParams{Repo: bookings.NewRepository(conn), TX: client})
	if err != nil {
		t.Fatalf("bookings service: %v", err)
	}
	usersSvc, err := users.NewService(users.ServiceParams{Repo: users.NewRepository(conn), TX: client})
	if err != nil {
		t.Fatalf("users service: %v", err)
	}

	handler := NewRouter(Dependencies{
		Config:   testConfig,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Checks:   checks,
		Sessions: stubSessionManager{},
		Rooms:    roomsSvc,
		Bookings: bookingsSvc,
		Users:    usersSvc,
	})
	return &testServer{handler: handler, conn: conn}
}

func (s *testServer) seedUser(t *testing.T, email string, role enums.UserRole) (uuid.UUID, string) {
	t.Helper()
	user, err := users.NewRepository(s.conn).Create(context.Background(), users.CreateUserDTO{
		Name:         email,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Status:       enums.UserStatusApproved,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := pkgAuth.MintAccessToken(testConfig.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return user.ID, token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, map[string]controllers.Pinger{"db": stubPinger{}})
	if rec := srv.do(t, http.MethodGet, "/health/live", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d", rec.Code)
	}

	down := newTestServer(t, map[string]controllers.Pinger{"redis": stubPinger{err: context.DeadlineExceeded}})
	rec := down.do(t, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready with failing dependency: expected 503 got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodGet, "/api/rooms", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	srv := newTestServer(t, nil)
	_, token := srv.seedUser(t, "user@example.com", enums.UserRoleUser)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/rooms", `{"name":"Atlas","capacity":4}`},
		{http.MethodDelete, "/api/rooms/" + uuid.NewString(), ""},
		{http.MethodPatch, "/api/bookings/" + uuid.NewString() + "/status", `{"status":"approved"}`},
		{http.MethodGet, "/api/admin/users", ""},
	}
	for _, tc := range cases {
		rec := srv.do(t, tc.method, tc.path, token, tc.body)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestBookingFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)
	_, adminToken := srv.seedUser(t, "admin@example.com", enums.UserRoleAdmin)
	userID, userToken := srv.seedUser(t, "user@example.com", enums.UserRoleUser)

	rec := srv.do(t, http.MethodPost, "/api/rooms", adminToken, `{"name":"Atlas","capacity":8,"floor":2,"building":"HQ","amenities":["tv"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create room: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var room rooms.RoomDTO
	if err := json.Unmarshal(decode(t, rec).Data, &room); err != nil {
		t.Fatalf("decode room: %v", err)
	}
	if room.Status != enums.RoomStatusAvailable {
		t.Fatalf("expected available room, got %s", room.Status)
	}

	body := `{"room_id":"` + room.ID.String() + `","start_time":"2025-03-10T10:00:00.000Z","end_time":"2025-03-10T11:00:00.000Z","title":"Standup"}`
	rec = srv.do(t, http.MethodPost, "/api/bookings", userToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var booking bookings.BookingDTO
	if err := json.Unmarshal(decode(t, rec).Data, &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if booking.UserID != userID || booking.Status != enums.BookingStatusPending {
		t.Fatalf("unexpected booking %+v", booking)
	}
	if !strings.Contains(rec.Body.String(), `"start_time":"2025-03-10T10:00:00.000Z"`) {
		t.Fatalf("expected millisecond UTC timestamps, got %s", rec.Body.String())
	}

	overlap := `{"room_id":"` + room.ID.String() + `","start_time":"2025-03-10T10:30:00.000Z","end_time":"2025-03-10T11:30:00.000Z","title":"Clash"}`
	rec = srv.do(t, http.MethodPost, "/api/bookings", userToken, overlap)
	if rec.Code != http.StatusConflict {
		t.Fatalf("overlap: expected 409 got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Error == nil || env.Error.Code != "SLOT_CONFLICT" || env.Error.Details["conflicting_booking_id"] != booking.ID.String() {
		t.Fatalf("unexpected conflict payload %s", rec.Body.String())
	}

	touching := `{"room_id":"` + room.ID.String() + `","start_time":"2025-03-10T11:00:00.000Z","end_time":"2025-03-10T12:00:00.000Z","title":"Next"}`
	if rec = srv.do(t, http.MethodPost, "/api/bookings", userToken, touching); rec.Code != http.StatusCreated {
		t.Fatalf("touching: expected 201 got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPatch, "/api/bookings/"+booking.ID.String()+"/status", adminToken, `{"status":"approved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	rec = srv.do(t, http.MethodPatch, "/api/bookings/"+booking.ID.String()+"/status", adminToken, `{"status":"rejected"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("terminal transition: expected 422 got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/bookings?room_id="+room.ID.String(), userToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", rec.Code)
	}
	var list []bookings.BookingDTO
	if err := json.Unmarshal(decode(t, rec).Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings got %d", len(list))
	}

	if rec = srv.do(t, http.MethodGet, "/api/bookings?room_id=nope", userToken, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad filter: expected 400 got %d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		if rec = srv.do(t, http.MethodDelete, "/api/rooms/"+room.ID.String(), adminToken, ""); rec.Code != http.StatusOK {
			t.Fatalf("delete room attempt %d: expected 200 got %d", i, rec.Code)
		}
	}
	if rec = srv.do(t, http.MethodGet, "/api/rooms/"+room.ID.String(), userToken, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted room: expected 404 got %d", rec.Code)
	}
}

func TestBookingValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)
	_, token := srv.seedUser(t, "user@example.com", enums.UserRoleUser)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown field", `{"room_id":"` + uuid.NewString() + `","title":"x","bogus":1}`, http.StatusBadRequest},
		{"missing title", `{"room_id":"` + uuid.NewString() + `","start_time":"2025-03-10T10:00:00.000Z","end_time":"2025-03-10T11:00:00.000Z"}`, http.StatusBadRequest},
		{"end before start", `{"room_id":"` + uuid.NewString() + `","start_time":"2025-03-10T11:00:00.000Z","end_time":"2025-03-10T10:00:00.000Z","title":"x"}`, http.StatusBadRequest},
		{"unknown room", `{"room_id":"` + uuid.NewString() + `","start_time":"2025-03-10T10:00:00.000Z","end_time":"2025-03-10T11:00:00.000Z","title":"x"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := srv.do(t, http.MethodPost, "/api/bookings", token, tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d got %d: %s", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestAdminUserRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	adminID, adminToken := srv.seedUser(t, "admin@example.com", enums.UserRoleAdmin)

	pending, err := users.NewRepository(srv.conn).Create(context.Background(), users.CreateUserDTO{
		Name:         "Pending",
		Email:        "pending@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	if rec := srv.do(t, http.MethodPost, "/api/admin/users/"+pending.ID.String()+"/deny", adminToken, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("deny without reason: expected 400 got %d", rec.Code)
	}
	rec := srv.do(t, http.MethodPost, "/api/admin/users/"+pending.ID.String()+"/deny", adminToken, `{"reason":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("deny: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec = srv.do(t, http.MethodPost, "/api/admin/users/"+pending.ID.String()+"/approve", adminToken, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("approve denied user: expected 422 got %d", rec.Code)
	}
	if rec = srv.do(t, http.MethodDelete, "/api/admin/users/"+adminID.String(), adminToken, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("self delete: expected 422 got %d", rec.Code)
	}
	if rec = srv.do(t, http.MethodDelete, "/api/admin/users/"+pending.ID.String(), adminToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/admin/users", adminToken, "")
	var list []users.UserDTO
	if err := json.Unmarshal(decode(t, rec).Data, &list); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(list) != 1 || list[0].ID != adminID {
		t.Fatalf("expected only the admin to remain, got %+v", list)
	}
}
