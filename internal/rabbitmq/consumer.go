package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/settlement-gateway/internal/lib/sl"
)

// ConsumerMessage читает сообщения из очереди и передаёт тело handler.
// Сообщение подтверждается после успешной обработки и возвращается в очередь при ошибке.
// Блокируется до отмены ctx или закрытия канала доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string,
	log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return nil
			}
			if err := handler(d.Body); err != nil {
				log.Warn("failed to handle message", slog.String("op", op), sl.Err(err))
				if nackErr := d.Nack(false, true); nackErr != nil {
					log.Error("failed to nack message", slog.String("op", op), sl.Err(nackErr))
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				log.Error("failed to ack message", slog.String("op", op), sl.Err(ackErr))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
