package rooms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/trustnote/roomsync/internal/presentation/utils"
)

func withRoomID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("roomId", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// These cover the request plumbing that rejects before the controller is
// ever touched; controller behavior itself is tested in internal/game.

func TestCreateRoomMissingIdentity(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"gameMode":"most_likely_to","maxPlayers":4}`))
	rec := httptest.NewRecorder()

	h.CreateRoomHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRoomBadBody(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"gameMode":`))
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	h.CreateRoomHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoomUnknownField(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"gameMode":"most_likely_to","bogus":true}`))
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	h.CreateRoomHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoomInvalidGameMode(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"gameMode":"charades","maxPlayers":4}`))
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	h.CreateRoomHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitVoteMissingTarget(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/r1/votes", strings.NewReader(`{"roundIndex":0}`))
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	req = withRoomID(req, "r1")
	h.SubmitVoteHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitVoteNegativeRound(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/r1/votes", strings.NewReader(`{"roundIndex":-1,"targetUid":"guest"}`))
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	req = withRoomID(req, "r1")
	h.SubmitVoteHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinRoomMissingIdentity(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/r1/join", nil)
	rec := httptest.NewRecorder()

	req = withRoomID(req, "r1")
	h.JoinRoomHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetRoomHistoryMissingIdentity(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/r1/history", nil)
	rec := httptest.NewRecorder()

	req = withRoomID(req, "r1")
	h.GetRoomHistoryHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetRoomHistoryMissingRoomID(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms//history", nil)
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	h.GetRoomHistoryHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRoomMissingRoomID(t *testing.T) {
	h := NewHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/", nil)
	req.Header.Set(utils.UserIDHeader, "host")
	rec := httptest.NewRecorder()

	h.GetRoomHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
