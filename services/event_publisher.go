package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/utils"
)

const TableStatusQueue = "table.status.changed"

// TableStatusChangedEvent is published whenever a table moves to a new status.
type TableStatusChangedEvent struct {
	TableID      uint                     `json:"tableId"`
	FloorID      uint                     `json:"floorId"`
	RestaurantID uint                     `json:"restaurantId"`
	TableName    string                   `json:"tableName"`
	From         string                   `json:"from"`
	To           string                   `json:"to"`
	Reservation  *models.TableReservation `json:"reservation,omitempty"`
	OccurredAt   time.Time                `json:"occurredAt"`
}

type EventPublisher interface {
	PublishTableStatusChanged(ctx context.Context, event TableStatusChangedEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishTableStatusChanged(context.Context, TableStatusChangedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

// rabbitSession is an open connection together with its publishing channel.
type rabbitSession interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpSession struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (s *amqpSession) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return s.ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (s *amqpSession) IsClosed() bool {
	return s.conn.IsClosed() || s.ch.IsClosed()
}

func (s *amqpSession) Close() error {
	_ = s.ch.Close()
	return s.conn.Close()
}

// dialRabbit opens a connection and declares the durable event queue.
func dialRabbit(url string) (rabbitSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(TableStatusQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	return &amqpSession{conn: conn, ch: ch}, nil
}

// RabbitPublisher sends events as persistent JSON messages to a durable queue.
// A lost connection is redialed on the next publish.
type RabbitPublisher struct {
	mu      sync.Mutex
	url     string
	dial    func(url string) (rabbitSession, error)
	session rabbitSession
}

// NewEventPublisher dials RabbitMQ, or returns a NopPublisher when url is empty.
func NewEventPublisher(url string) (EventPublisher, error) {
	if url == "" {
		utils.InfoLogger.Info("RABBITMQ_URL not set, table events will not be published")
		return NopPublisher{}, nil
	}
	p := newRabbitPublisher(url, dialRabbit)
	if err := p.connect(); err != nil {
		return nil, err
	}
	utils.InfoLogger.Infof("Publishing table events to queue %s", TableStatusQueue)
	return p, nil
}

func newRabbitPublisher(url string, dial func(string) (rabbitSession, error)) *RabbitPublisher {
	return &RabbitPublisher{url: url, dial: dial}
}

func (p *RabbitPublisher) connect() error {
	session, err := p.dial(p.url)
	if err != nil {
		return err
	}
	p.session = session
	return nil
}

func (p *RabbitPublisher) PublishTableStatusChanged(ctx context.Context, event TableStatusChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil || p.session.IsClosed() {
		if p.session != nil {
			_ = p.session.Close()
			p.session = nil
		}
		if err := p.connect(); err != nil {
			return err
		}
	}
	err = p.session.PublishWithContext(ctx, "", TableStatusQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		// drop the session so the next publish redials
		_ = p.session.Close()
		p.session = nil
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}
