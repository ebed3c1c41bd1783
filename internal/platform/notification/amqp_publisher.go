// Package notification delivers push notifications by publishing them to a
// message queue consumed by the delivery worker. The broker is treated as a
// black box: callers only ever see the NotificationSender interface.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/rabbitmq/amqp091-go"

	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
)

// AMQPPublisher publishes notifications to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
}

var _ portssvc.NotificationSender = (*AMQPPublisher)(nil)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQPPublisher connects to the broker and declares the notification queue.
func NewAMQPPublisher(amqpURL, queueName string) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // auto-deleted
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
	}, nil
}

// Send publishes one notification as a persistent JSON message.
func (p *AMQPPublisher) Send(ctx context.Context, n portssvc.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		})
}

// Close gracefully closes the channel and connection.
func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopSender satisfies NotificationSender when no broker is configured.
type NoopSender struct{}

var _ portssvc.NotificationSender = NoopSender{}

// Send discards the notification.
func (NoopSender) Send(ctx context.Context, n portssvc.Notification) error { return nil }
