package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"patternchat/internal/model"
)

// ReplyPublisher enqueues bot messages for asynchronous persistence.
type ReplyPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewReplyPublisher(conn *amqp.Connection, queueName string) *ReplyPublisher {
	return &ReplyPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ReplyPublisher) Publish(ctx context.Context, msg model.Message) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	// Declare is idempotent; keeps publisher and worker agreeing on durability.
	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message payload failed: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp.Persistent,
	}); err != nil {
		return fmt.Errorf("publish reply failed: %w", err)
	}
	return nil
}
