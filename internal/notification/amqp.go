package notification

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"gymstudio/internal/domain"
)

// AMQPSender publishes confirmations to a topic exchange. A separate
// worker consumes them and sends the actual SMS/email.
type AMQPSender struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPSender(url, exchange string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSender{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *AMQPSender) RegistrationConfirmed(ctx context.Context, reg *domain.Registration, ev *domain.Event) error {
	return s.publish(ctx, KeyRegistrationConfirmed, buildConfirmation(reg, ev))
}

func (s *AMQPSender) publish(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.ch.PublishWithContext(ctx, s.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}

func (s *AMQPSender) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
