package game

import (
	"context"
	"errors"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/logging"
)

// SubmitVote records one ballot for the round the caller saw. When the
// ballot completes the round, the round advance (or the terminal
// transition on the final round) commits in the same transaction as the
// ballot itself.
func (c *Controller) SubmitVote(ctx context.Context, roomID string, roundIndex int, voterUID, targetUID string) (*domain.Room, error) {
	updated, err := c.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := validateBallot(updated, roundIndex, voterUID, targetUID); err != nil {
		return nil, err
	}

	roundComplete := false
	err = c.txn.WithinTxn(ctx, func(txCtx context.Context) error {
		room, err := c.rooms.GetByID(txCtx, roomID)
		if err != nil {
			return err
		}
		if err := validateBallot(room, roundIndex, voterUID, targetUID); err != nil {
			return err
		}

		vote, err := domain.NewVote(roomID, roundIndex, voterUID, targetUID, c.clock.Now().UTC())
		if err != nil {
			return err
		}
		if err := c.votes.Record(txCtx, vote); err != nil {
			return err
		}

		done, err := c.HasAllVoted(txCtx, room)
		if err != nil {
			return err
		}
		if !done {
			updated = room
			return nil
		}

		advanced, err := c.updateRoom(txCtx, roomID, func(r *domain.Room) error {
			if r.Status != domain.StatusInProgress {
				return domain.ErrRoomNotInProgress
			}
			if r.CurrentRoundIndex != roundIndex {
				return domain.ErrStaleRound
			}
			return r.AdvanceRound()
		})
		if err != nil {
			// A concurrent final ballot already advanced the round; the
			// ballot itself still stands.
			if errors.Is(err, domain.ErrStaleRound) {
				updated = room
				return nil
			}
			return err
		}

		roundComplete = true
		updated = advanced
		return nil
	})
	if err != nil {
		c.countOp("vote", "error")
		return nil, err
	}
	c.countOp("vote", "ok")

	c.logger.Info(logging.Game, logging.Voting, "vote recorded", map[logging.ExtraKey]any{
		logging.RoomID:     roomID,
		logging.UserID:     voterUID,
		logging.RoundIndex: roundIndex,
	})

	if err := c.publisher.PublishVoteCast(ctx, *updated, voterUID); err != nil {
		c.logger.Errorf("publish vote cast: %v", err)
	}

	if roundComplete {
		c.notifier.PublishState(updated)
		if updated.Status == domain.StatusEnded {
			if err := c.publisher.PublishRoomEnded(ctx, *updated, ""); err != nil {
				c.logger.Errorf("publish room ended: %v", err)
			}
		} else {
			if err := c.publisher.PublishRoundAdvanced(ctx, *updated); err != nil {
				c.logger.Errorf("publish round advanced: %v", err)
			}
		}
	}

	return updated, nil
}

// HasAllVoted reports whether every current player has a ballot in the
// room's current round.
func (c *Controller) HasAllVoted(ctx context.Context, room *domain.Room) (bool, error) {
	votes, err := c.votes.ListForRound(ctx, room.ID, room.CurrentRoundIndex)
	if err != nil {
		return false, err
	}

	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.VoterUID] = true
	}

	for _, uid := range room.PlayerIDs {
		if !voted[uid] {
			return false, nil
		}
	}
	return true, nil
}

func validateBallot(room *domain.Room, roundIndex int, voterUID, targetUID string) error {
	if room.Status != domain.StatusInProgress {
		return domain.ErrRoomNotInProgress
	}
	if room.CurrentRoundIndex != roundIndex {
		return domain.ErrStaleRound
	}
	if !room.HasPlayer(voterUID) || !room.HasPlayer(targetUID) {
		return domain.ErrNotAMember
	}
	return nil
}
