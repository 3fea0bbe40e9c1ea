package rooms

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/game"
	"github.com/trustnote/roomsync/internal/infrastructure/json"
	"github.com/trustnote/roomsync/internal/infrastructure/validate"
	"github.com/trustnote/roomsync/internal/infrastructure/ws"
	"github.com/trustnote/roomsync/internal/presentation/utils"
)

type Handler struct {
	controller  *game.Controller
	roomManager *ws.RoomManager
	core        *ws.Core
}

func NewHandler(controller *game.Controller, roomManager *ws.RoomManager, core *ws.Core) *Handler {
	return &Handler{
		controller:  controller,
		roomManager: roomManager,
		core:        core,
	}
}

// CreateRoomHandler godoc
// @Summary      Create a game room
// @Description  Opens a new room in the waiting state with the caller as host
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body createRoomRequest true "Room settings"
// @Success      201 {object} roomResponse "Room created"
// @Failure      400 {object} map[string]interface{} "Bad request"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      404 {object} map[string]interface{} "Caller profile not found"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /rooms [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	if err := validate.GameMode()(req.GameMode); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	room, err := h.controller.CreateRoom(r.Context(), uid, domain.GameMode(req.GameMode), req.MaxPlayers)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, toRoomResponse(room))
}

// GetRoomHandler godoc
// @Summary      Get a room snapshot
// @Description  Returns the current room state; members only
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse "Room snapshot"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      403 {object} map[string]interface{} "Not a member"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	room, err := h.controller.GetRoom(r.Context(), roomID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	if !room.HasPlayer(uid) {
		utils.WriteDomainError(w, domain.ErrNotAMember)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// SubscribeHandler godoc
// @Summary      Subscribe to room snapshots over WebSocket
// @Description  Upgrades to a WebSocket and streams a full room snapshot per committed write, starting with the current state
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      101 {object} map[string]interface{} "Switching Protocols"
// @Failure      400 {object} map[string]interface{} "Missing room ID"
// @Router       /rooms/{roomId}/subscribe [get]
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	uid := utils.GetUserID(r)

	conn, err := h.roomManager.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for room %s: %v", roomID, err)
		return
	}

	if uid == "" {
		_ = conn.WriteJSON(ws.NewAuthError(roomID, "Missing identity header"))
		_ = conn.Close()
		return
	}

	room, err := h.controller.GetRoom(r.Context(), roomID)
	if err != nil {
		msg := "Failed to load room"
		if errors.Is(err, domain.ErrRoomNotFound) {
			msg = "Room not found"
		}
		_ = conn.WriteJSON(ws.NewSubscribeFailed(roomID, msg))
		_ = conn.Close()
		return
	}

	if !room.HasPlayer(uid) {
		_ = conn.WriteJSON(ws.NewSubscribeFailed(roomID, "Not a member"))
		_ = conn.Close()
		return
	}

	client := ws.NewClient(conn, uid, roomID)
	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)

	log.Printf("User %s subscribed to room %s", uid, roomID)
}

// JoinRoomHandler godoc
// @Summary      Join a waiting room
// @Description  Adds the caller to the room while it is still waiting
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse "Updated room snapshot"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Failure      409 {object} map[string]interface{} "Already joined or room full"
// @Failure      422 {object} map[string]interface{} "Room is not accepting players"
// @Router       /rooms/{roomId}/join [post]
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	room, err := h.controller.JoinRoom(r.Context(), roomID, uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// StartGameHandler godoc
// @Summary      Start the game
// @Description  Host-only; shuffles the question pool and moves the room to in_progress
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse "Updated room snapshot"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      403 {object} map[string]interface{} "Caller is not the host"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Failure      422 {object} map[string]interface{} "Not enough players or questions"
// @Router       /rooms/{roomId}/start [post]
func (h *Handler) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	room, err := h.controller.StartGame(r.Context(), roomID, uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// SubmitVoteHandler godoc
// @Summary      Submit a vote
// @Description  Records one ballot for the current round; the round advances once every player has voted
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body voteRequest true "Ballot"
// @Success      200 {object} roomResponse "Updated room snapshot"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      403 {object} map[string]interface{} "Voter or target not a member"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Failure      409 {object} map[string]interface{} "Duplicate vote"
// @Failure      422 {object} map[string]interface{} "Stale round or game not in progress"
// @Router       /rooms/{roomId}/votes [post]
func (h *Handler) SubmitVoteHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	var req voteRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.TargetUID == "" {
		json.WriteBadRequestError(w, "targetUid is required")
		return
	}
	if req.RoundIndex < 0 {
		json.WriteBadRequestError(w, "roundIndex must not be negative")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	room, err := h.controller.SubmitVote(r.Context(), roomID, req.RoundIndex, uid, req.TargetUID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// EndRoomHandler godoc
// @Summary      End a room
// @Description  Host-only; moves the room to ended and closes its subscription channel
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} roomResponse "Final room snapshot"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      403 {object} map[string]interface{} "Caller is not the host"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/end [post]
func (h *Handler) EndRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	room, err := h.controller.EndRoom(r.Context(), roomID, uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, toRoomResponse(room))
}

// GetRoomHistoryHandler godoc
// @Summary      Read a room's audit trail
// @Description  Host-only; returns the room's lifecycle events, newest first
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        limit  query int false "Maximum entries to return"
// @Success      200 {array} auditEntryResponse "Room events"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      403 {object} map[string]interface{} "Caller is not the host"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{roomId}/history [get]
func (h *Handler) GetRoomHistoryHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.controller.RoomHistory(r.Context(), roomID, uid, limit)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			EventType: string(e.EventType),
			Timestamp: e.Timestamp,
			Metadata:  e.Metadata,
		})
	}

	json.Write(w, http.StatusOK, out)
}
