package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/settlement-gateway/internal/models"
)

// Channel — часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClaimPublisher публикует события заявок с ключом маршрутизации, равным типу события.
// amqp.Channel не потокобезопасен для публикации, поэтому вызовы сериализуются.
type ClaimPublisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

// NewClaimPublisher создает ClaimPublisher поверх канала.
func NewClaimPublisher(ch Channel, exchange string) *ClaimPublisher {
	return &ClaimPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие заявки.
func (p *ClaimPublisher) Publish(ctx context.Context, event models.ClaimEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return PublishMessage(p.ch, p.exchange, string(event.Type), event)
}
