package utils

import (
	"errors"
	"net/http"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/json"
)

// WriteDomainError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrInviteNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Not found")

	case errors.Is(err, domain.ErrNotHost),
		errors.Is(err, domain.ErrNotAMember):
		json.WriteError(w, http.StatusForbidden, err, "Not allowed")

	case errors.Is(err, domain.ErrMissingIdentity):
		json.WriteError(w, http.StatusBadRequest, err, "Missing identity")

	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrAlreadyInvited),
		errors.Is(err, domain.ErrDuplicateVote),
		errors.Is(err, domain.ErrVersionConflict):
		json.WriteError(w, http.StatusConflict, err, "Conflict")

	case errors.Is(err, domain.ErrRoomNotJoinable),
		errors.Is(err, domain.ErrRoomNotInProgress),
		errors.Is(err, domain.ErrStaleRound),
		errors.Is(err, domain.ErrNotEnoughPlayers),
		errors.Is(err, domain.ErrInsufficientQuestions),
		errors.Is(err, domain.ErrInviteNotPending):
		json.WriteError(w, http.StatusUnprocessableEntity, err, "Precondition failed")

	default:
		json.WriteInternalError(w, err)
	}
}
