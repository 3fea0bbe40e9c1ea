package friends

import (
	"errors"
	"net/http"

	"github.com/trustnote/roomsync/internal/domain"
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

// ListFriendsHandler godoc
// @Summary      List friends
// @Description  Returns the caller's accepted friends, the pool the invite flow picks from, plus the pending-request count
// @Tags         friends
// @Produce      json
// @Success      200 {object} friendsResponse "Accepted friends and pending-request count"
// @Failure      401 {object} map[string]interface{} "Missing identity header"
// @Router       /friends [get]
func (h *Handler) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	uid := utils.GetUserID(r)
	if uid == "" {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing identity header")
		return
	}

	profiles, err := h.controller.ListFriendsOf(r.Context(), uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	pending, err := h.controller.PendingFriendRequests(r.Context(), uid)
	if err != nil {
		utils.WriteDomainError(w, err)
		return
	}

	out := make([]friendResponse, 0, len(profiles))
	for _, p := range profiles {
		avatar := p.Avatar
		if avatar == "" {
			// profiles created before avatars existed
			avatar = domain.DefaultAvatarURL(p.DisplayName)
		}
		out = append(out, friendResponse{
			UID:         p.UID,
			DisplayName: p.DisplayName,
			Avatar:      avatar,
		})
	}

	json.Write(w, http.StatusOK, friendsResponse{
		Friends:         out,
		PendingRequests: pending,
	})
}
