package events

import (
	"context"
	"encoding/json"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/contracts"
	"github.com/trustnote/roomsync/internal/infrastructure/messaging"
)

// RoomPublisher fans room lifecycle events out to AMQP. Publishing is
// best-effort; callers log failures and carry on.
type RoomPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewRoomPublisher(rabbitmq *messaging.RabbitMQ) *RoomPublisher {
	return &RoomPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *RoomPublisher) publishRoomEvent(ctx context.Context, routingKey string, eventType domain.RoomEventType, room domain.Room, actorUID string) error {
	payload := messaging.RoomEventData{
		EventType: eventType,
		Room:      room,
		ActorUID:  actorUID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: room.ID,
		Data:   data,
	})
}

func (p *RoomPublisher) PublishRoomCreated(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomCreated, domain.EventRoomCreated, room, room.CreatedBy)
}

func (p *RoomPublisher) PublishPlayerJoined(ctx context.Context, room domain.Room, uid string) error {
	return p.publishRoomEvent(ctx, contracts.EventPlayerJoined, domain.EventPlayerJoined, room, uid)
}

func (p *RoomPublisher) PublishGameStarted(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventGameStarted, domain.EventGameStarted, room, room.CreatedBy)
}

func (p *RoomPublisher) PublishVoteCast(ctx context.Context, room domain.Room, voterUID string) error {
	return p.publishRoomEvent(ctx, contracts.EventVoteCast, domain.EventVoteCast, room, voterUID)
}

func (p *RoomPublisher) PublishRoundAdvanced(ctx context.Context, room domain.Room) error {
	return p.publishRoomEvent(ctx, contracts.EventRoundAdvanced, domain.EventRoundAdvanced, room, "")
}

func (p *RoomPublisher) PublishRoomEnded(ctx context.Context, room domain.Room, actorUID string) error {
	return p.publishRoomEvent(ctx, contracts.EventRoomEnded, domain.EventRoomEnded, room, actorUID)
}

func (p *RoomPublisher) PublishInviteSent(ctx context.Context, invite domain.Invite) error {
	return p.publishInviteEvent(ctx, contracts.EventInviteSent, domain.EventInviteSent, invite)
}

func (p *RoomPublisher) PublishInviteAccepted(ctx context.Context, invite domain.Invite) error {
	return p.publishInviteEvent(ctx, contracts.EventInviteAccepted, domain.EventInviteAccepted, invite)
}

func (p *RoomPublisher) publishInviteEvent(ctx context.Context, routingKey string, eventType domain.RoomEventType, invite domain.Invite) error {
	payload := messaging.InviteEventData{
		EventType: eventType,
		Invite:    invite,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: invite.RoomID,
		Data:   data,
	})
}
