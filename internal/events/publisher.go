package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishUserSignedIn(ctx context.Context, ev UserSignedInEnvelope) error
	PublishCartItemAdded(ctx context.Context, ev CartItemAddedEnvelope) error
	PublishOrderPlaced(ctx context.Context, ev OrderPlacedEnvelope) error
	Close() error
}

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch channel
}

func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the exchange so publish never fails due to missing infra
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}

	return &RabbitPublisher{ch: ch}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishUserSignedIn(ctx context.Context, ev UserSignedInEnvelope) error {
	return p.publish(ctx, UserSignedInRoutingKey, ev.EventID, ev.CorrelationID, ev)
}

func (p *RabbitPublisher) PublishCartItemAdded(ctx context.Context, ev CartItemAddedEnvelope) error {
	return p.publish(ctx, CartItemAddedRoutingKey, ev.EventID, ev.CorrelationID, ev)
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlacedEnvelope) error {
	return p.publish(ctx, OrderPlacedRoutingKey, ev.EventID, ev.CorrelationID, ev)
}

func (p *RabbitPublisher) publish(ctx context.Context, routingKey, messageID, correlationID string, ev any) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: correlationID,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishUserSignedIn(context.Context, UserSignedInEnvelope) error   { return nil }
func (NopPublisher) PublishCartItemAdded(context.Context, CartItemAddedEnvelope) error { return nil }
func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEnvelope) error     { return nil }
func (NopPublisher) Close() error                                                      { return nil }
