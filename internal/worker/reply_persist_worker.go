package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"patternchat/internal/model"
	"patternchat/internal/repository"
)

// HistoryInvalidator lets the worker drop cached history pages after a
// bot message lands in the store.
type HistoryInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ReplyPersistWorker drains the reply-persist queue and writes bot messages
// to the store. Persistence here is best effort: failed deliveries are nacked
// without requeue and logged, matching the turn contract where a lost bot
// message never fails the request that produced it.
type ReplyPersistWorker struct {
	conn        *amqp.Connection
	repo        *repository.MessageRepository
	invalidator HistoryInvalidator
	queueName   string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReplyPersistWorker(
	conn *amqp.Connection,
	repo *repository.MessageRepository,
	invalidator HistoryInvalidator,
	queueName string,
) *ReplyPersistWorker {
	return &ReplyPersistWorker{
		conn:        conn,
		repo:        repo,
		invalidator: invalidator,
		queueName:   queueName,
	}
}

func (w *ReplyPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume worker queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *ReplyPersistWorker) handle(ctx context.Context, d amqp.Delivery) {
	var msg model.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("worker decode reply failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.repo.Create(&msg); err != nil {
		log.Printf("worker persist reply failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if w.invalidator != nil {
		if err := w.invalidator.Invalidate(ctx); err != nil {
			log.Printf("worker invalidate history cache failed: %v", err)
		}
	}

	_ = d.Ack(false)
}

func (w *ReplyPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
