package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/santase/internal/game"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rm := game.NewManager(game.Options{DisconnectGrace: time.Second, Clock: clock.NewMock()})
	srv := New(rm)
	r := gin.New()
	srv.Routes(r, "admin", "secret")
	return r, srv
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreateAndGetRoom(t *testing.T) {
	r, srv := newTestRouter(t)
	w := do(r, httptest.NewRequest(http.MethodPost, "/api/rooms", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created struct {
		Code       string `json:"code"`
		HostSecret string `json:"hostSecret"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Code == "" || created.HostSecret == "" {
		t.Fatalf("missing fields: %+v", created)
	}
	if srv.RM.Len() != 1 {
		t.Fatalf("rooms = %d, want 1", srv.RM.Len())
	}

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/rooms/"+created.Code, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var sum game.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Code != created.Code || sum.Phase != game.PhaseLobby {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestGetMissingRoom(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, httptest.NewRequest(http.MethodGet, "/api/rooms/NOPE2", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteRoomRequiresSecret(t *testing.T) {
	r, srv := newTestRouter(t)
	code, secret, _ := srv.RM.CreateRoom()

	req := httptest.NewRequest(http.MethodDelete, "/api/rooms/"+code, nil)
	req.Header.Set("X-Host-Secret", "wrong")
	if w := do(r, req); w.Code != http.StatusForbidden {
		t.Fatalf("wrong secret status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/rooms/"+code, nil)
	req.Header.Set("X-Host-Secret", secret)
	if w := do(r, req); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	if srv.RM.Len() != 0 {
		t.Fatalf("room still registered")
	}
}

func TestAdminRoomsBasicAuth(t *testing.T) {
	r, srv := newTestRouter(t)
	srv.RM.CreateRoom()
	srv.RM.CreateRoom()

	if w := do(r, httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)
	req.SetBasicAuth("admin", "secret")
	w := do(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Rooms []game.Summary `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(body.Rooms))
	}
}

func TestAdminRoutesDisabledWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(game.NewManager(game.Options{Clock: clock.NewMock()}))
	r := gin.New()
	srv.Routes(r, "", "")
	if w := do(r, httptest.NewRequest(http.MethodGet, "/api/admin/rooms", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
