package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/rabbitmq/amqp091-go"

	"github.com/trustnote/roomsync/internal/domain"
	"github.com/trustnote/roomsync/internal/infrastructure/contracts"
	"github.com/trustnote/roomsync/internal/infrastructure/messaging"
)

// auditConsumer drains the audit queue and persists one RoomAuditLog
// entry per room event.
type auditConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audit    domain.RoomAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, audit domain.RoomAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq: rabbitmq,
		audit:    audit,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		entry, err := c.entryFor(msg.RoutingKey, message)
		if err != nil {
			log.Printf("Failed to decode %s event: %v", msg.RoutingKey, err)
			return err
		}

		return c.audit.Log(ctx, entry)
	})
}

func (c *auditConsumer) entryFor(routingKey string, message contracts.AmqpMessage) (*domain.RoomAuditLog, error) {
	if strings.HasPrefix(routingKey, "invite.") {
		var payload messaging.InviteEventData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			return nil, err
		}
		return domain.NewRoomAuditLog(payload.Invite.RoomID, payload.EventType, map[string]any{
			"invite_id":    payload.Invite.ID,
			"sender_id":    payload.Invite.SenderID,
			"recipient_id": payload.Invite.RecipientID,
		}), nil
	}

	var payload messaging.RoomEventData
	if err := json.Unmarshal(message.Data, &payload); err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"status":       string(payload.Room.Status),
		"player_count": len(payload.Room.Players),
		"round_index":  payload.Room.CurrentRoundIndex,
	}
	if payload.ActorUID != "" {
		metadata["actor_uid"] = payload.ActorUID
	}

	return domain.NewRoomAuditLog(payload.Room.ID, payload.EventType, metadata), nil
}
