// Package messaging provides the RabbitMQ publishing client used to mirror
// order events onto a broker for downstream consumers.
package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Client wraps an AMQP connection with a single publishing channel. The
// exchange is declared durable on connect so publishes survive broker
// restarts.
type Client struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closing bool
}

func NewClient(url, exchange string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{url: url, exchange: exchange, logger: logger}
}

// Connect dials the broker and declares the topic exchange. On connection
// loss a watcher goroutine redials after a short pause.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		c.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %q: %w", c.exchange, err)
	}

	c.conn = conn
	c.channel = channel
	c.logger.Info("connected to RabbitMQ", slog.String("exchange", c.exchange))

	go c.watchConnection(conn)

	return nil
}

func (c *Client) watchConnection(conn *amqp.Connection) {
	notify := make(chan *amqp.Error, 1)
	conn.NotifyClose(notify)

	err, ok := <-notify
	if !ok {
		return
	}

	c.mu.RLock()
	closing := c.closing
	c.mu.RUnlock()
	if closing {
		return
	}

	c.logger.Warn("RabbitMQ connection lost, reconnecting", slog.String("error", err.Error()))
	time.Sleep(2 * time.Second)
	if reconnectErr := c.Connect(); reconnectErr != nil {
		c.logger.Error("RabbitMQ reconnect failed", slog.String("error", reconnectErr.Error()))
	}
}

// IsConnected reports whether the underlying connection is usable.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Publish serializes payload as JSON and publishes it with persistent
// delivery under the given routing key.
func (c *Client) Publish(routingKey string, payload any) error {
	if !c.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	c.mu.RLock()
	channel := c.channel
	c.mu.RUnlock()

	if err := channel.Publish(
		c.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
		},
	); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Close shuts the channel and connection down. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return nil
	}
	c.closing = true

	var closeErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return closeErr
}
