// Package broker announces finished imports on a RabbitMQ topic exchange.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/importer"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "gig-manager.imports"

const publishTimeout = 5 * time.Second

// ImportCompleted is the body of an import.completed.<type> message.
type ImportCompleted struct {
	ImportID     string    `json:"import_id"`
	ImportType   string    `json:"import_type"`
	SuccessCount int       `json:"success_count"`
	ErrorCount   int       `json:"error_count"`
	Errors       []string  `json:"errors"`
	CompletedAt  time.Time `json:"completed_at"`
}

// RoutingKey returns the routing key for a completed import of type t.
func RoutingKey(t importer.ImportType) string {
	return "import.completed." + string(t)
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends import.completed messages. It implements importer.Observer;
// per-row notifications are not published.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	now      func() time.Time
}

// Dial connects to the broker at url and declares exchange as a durable
// topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	log.Info().Str("exchange", exchange).Msg("Connected to message broker")
	return &Publisher{conn: conn, ch: ch, exchange: exchange, now: time.Now}, nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("closing channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("closing connection: %w", err)
		}
	}
	return nil
}

// PublishCompleted sends the outcome of one commit batch.
func (p *Publisher) PublishCompleted(ctx context.Context, importID string, t importer.ImportType, result importer.CommitResult) error {
	body, err := json.Marshal(ImportCompleted{
		ImportID:     importID,
		ImportType:   string(t),
		SuccessCount: result.SuccessCount,
		ErrorCount:   len(result.Errors),
		Errors:       result.Errors,
		CompletedAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,    // exchange
		RoutingKey(t), // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    importID,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing %s: %w", RoutingKey(t), err)
	}
	return nil
}

// RowCommitted implements importer.Observer.
func (p *Publisher) RowCommitted(string, importer.ImportType, int, string) {}

// RowFailed implements importer.Observer.
func (p *Publisher) RowFailed(string, importer.ImportType, int, error) {}

// BatchCompleted implements importer.Observer. Publish failures are logged;
// the import itself has already been committed.
func (p *Publisher) BatchCompleted(importID string, t importer.ImportType, result importer.CommitResult) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.PublishCompleted(ctx, importID, t, result); err != nil {
		log.Error().Err(err).Str("import_id", importID).Msg("Failed to publish import completion")
	}
}
