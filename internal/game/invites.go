package game

import (
	"context"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/logging"
)

// Invite offers recipientUID a seat in the sender's room. At most one
// pending invite may exist per (room, recipient); the storage layer's
// unique index backstops the precheck.
func (c *Controller) Invite(ctx context.Context, roomID, senderUID, recipientUID string) (*domain.Invite, error) {
	room, err := c.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasPlayer(senderUID) {
		return nil, domain.ErrNotAMember
	}
	if room.HasPlayer(recipientUID) {
		return nil, domain.ErrAlreadyJoined
	}
	if _, err := c.users.GetByID(ctx, recipientUID); err != nil {
		return nil, err
	}

	pending, err := c.invites.HasPending(ctx, roomID, recipientUID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrAlreadyInvited
	}

	var sender *domain.Player
	for i := range room.Players {
		if room.Players[i].UID == senderUID {
			sender = &room.Players[i]
			break
		}
	}

	invite, err := domain.NewInvite(roomID, sender, recipientUID, c.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := c.invites.Create(ctx, invite); err != nil {
		return nil, err
	}

	c.logger.Info(logging.Game, logging.Invites, "invite sent", map[logging.ExtraKey]any{
		logging.RoomID: roomID,
		logging.UserID: recipientUID,
	})

	if err := c.publisher.PublishInviteSent(ctx, *invite); err != nil {
		c.logger.Errorf("publish invite sent: %v", err)
	}

	return invite, nil
}

func (c *Controller) ListPendingInvites(ctx context.Context, uid string) ([]domain.Invite, error) {
	return c.invites.ListPendingFor(ctx, uid)
}

// AcceptInvite consumes a pending invite and joins its room in one
// transaction. If the join fails (room full, already started) nothing
// commits and the invite stays pending.
func (c *Controller) AcceptInvite(ctx context.Context, inviteID, uid string) (*domain.Room, error) {
	invite, err := c.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.RecipientID != uid {
		return nil, domain.ErrInviteNotFound
	}
	if invite.Status != domain.InvitePending {
		return nil, domain.ErrInviteNotPending
	}

	profile, err := c.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	var room *domain.Room
	err = c.txn.WithinTxn(ctx, func(txCtx context.Context) error {
		if err := c.invites.MarkAccepted(txCtx, inviteID); err != nil {
			return err
		}

		room, err = c.updateRoom(txCtx, invite.RoomID, func(r *domain.Room) error {
			return r.AddPlayer(profile.Player())
		})
		return err
	})
	if err != nil {
		c.countOp("invite_accept", "error")
		return nil, err
	}
	c.countOp("invite_accept", "ok")

	c.logger.Info(logging.Game, logging.Invites, "invite accepted", map[logging.ExtraKey]any{
		logging.RoomID: invite.RoomID,
		logging.UserID: uid,
	})

	c.notifier.PublishState(room)

	invite.Status = domain.InviteAccepted
	if err := c.publisher.PublishInviteAccepted(ctx, *invite); err != nil {
		c.logger.Errorf("publish invite accepted: %v", err)
	}
	if err := c.publisher.PublishPlayerJoined(ctx, *room, uid); err != nil {
		c.logger.Errorf("publish player joined: %v", err)
	}

	return room, nil
}
