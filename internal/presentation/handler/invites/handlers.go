package invites

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trustnote/roomsync/internal/game"
	"github.com/trustnote/roomsync/internal/infrastructure/json"
	"github.com/trustnote/roomsync/internal/presentation/utils"
)

type Handler struct {
	controller *game.Controller
}

func NewHandler(controller *game.Controller) *Handler {
	return &Handler{
		controller: controller,
	}
}

// InviteFriendHandler godoc
// @Summary      Invite a user to a room
// @Description  Creates a pending invite; at most one pending invite per room and recipient
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body inviteFriendRequest true "Recipient"
// @Success      201 {object} inviteResponse "Invite created"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      403 {object} map[string]interface{} "Sender is not a member"
// @Failure      404 {object} map[string]interface{} "Room or recipient not found"
// @Failure      409 {object} map[string]interface{} "Recipient already invited or already joined"
// @Router       /rooms/{roomId}/invites [post]
func (h *Handler) InviteFriendHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteBadRequestError(w, "room ID is missing")
		return
	}

	var req inviteFriendRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.RecipientUID == "" {
		json.WriteBadRequestError(w, "recipientUid is required")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	invite, err := h.controller.Invite(r.Context(), roomID, uid, req.RecipientUID)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, toInviteResponse(invite))
}

// ListPendingInvitesHandler godoc
// @Summary      List pending invites
// @Description  Returns pending invites addressed to the caller, newest first
// @Tags         invites
// @Produce      json
// @Success      200 {array} inviteResponse "Pending invites"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Router       /invites [get]
func (h *Handler) ListPendingInvitesHandler(w http.ResponseWriter, r *http.Request) {
	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	pending, err := h.controller.ListPendingInvites(r.Context(), uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	out := make([]inviteResponse, 0, len(pending))
	for i := range pending {
		out = append(out, toInviteResponse(&pending[i]))
	}

	json.Write(w, http.StatusOK, out)
}

// AcceptInviteHandler godoc
// @Summary      Accept an invite
// @Description  Consumes the pending invite and joins its room in one transaction; if the join fails the invite stays pending
// @Tags         invites
// @Produce      json
// @Param        inviteId path string true "Invite ID"
// @Success      200 {object} acceptInviteResponse "Joined room"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Failure      404 {object} map[string]interface{} "Invite not found"
// @Failure      409 {object} map[string]interface{} "Room full or already joined"
// @Failure      422 {object} map[string]interface{} "Invite no longer pending or room not joinable"
// @Router       /invites/{inviteId}/accept [post]
func (h *Handler) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	inviteID := chi.URLParam(r, "inviteId")
	if inviteID == "" {
		json.WriteBadRequestError(w, "invite ID is missing")
		return
	}

	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	room, err := h.controller.AcceptInvite(r.Context(), inviteID, uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, acceptInviteResponse{
		RoomID:  room.ID,
		Status:  string(room.Status),
		Version: room.Version,
	})
}
