// Package notifier delivers participant notifications. Event actions publish
// a message to RabbitMQ and return immediately; a consumer worker drains the
// queue and sends the actual mail. Nothing in here ever fails an event action.
package notifier

import (
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"playgrounds/internal/lib/logger/sl"
)

type Client struct {
	log      *slog.Logger
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

func NewClient(log *slog.Logger, url, exchange, queue string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("RabbitMQ initialized",
		slog.String("exchange", exchange),
		slog.String("queue", queue),
	)

	return &Client{
		log:      log,
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
	}, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.log.Info("RabbitMQ connection closed")
}

func (c *Client) Publish(message []byte) error {
	return c.channel.Publish(c.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        message,
	})
}

// Consume feeds queued messages to handler. A failed message is requeued.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				c.log.Warn("failed to process message", sl.Err(err))
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	c.log.Info("started consuming", slog.String("queue", c.queue))
	return nil
}
