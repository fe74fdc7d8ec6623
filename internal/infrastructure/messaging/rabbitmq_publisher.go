package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"qpay_gin/internal/domain/entities"
	"qpay_gin/internal/infrastructure/logger"
	"qpay_gin/internal/usecase/interfaces"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	ExchangeName          = "qpay.payments"
	RoutingKeyReceived    = "payment.received"
	RoutingKeyFailed      = "payment.failed"
	defaultPublishTimeout = 5 * time.Second
)

// amqpChannel is the part of *amqp.Channel the publisher needs.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes webhook outcomes to a topic exchange.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel amqpChannel
}

var _ interfaces.IPaymentEventPublisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher dials amqpURL and declares the payments exchange.
func NewRabbitMQPublisher(amqpURL string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newPublisher(channel)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(channel amqpChannel) (*RabbitMQPublisher, error) {
	err := channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &RabbitMQPublisher{channel: channel}, nil
}

// PublishPaymentEvent sends event as persistent JSON. Paid events go to
// payment.received, everything else to payment.failed.
func (p *RabbitMQPublisher) PublishPaymentEvent(ctx context.Context, event entities.PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()
	}

	key := routingKeyFor(event.Status)
	err = p.channel.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Component("qpay.messaging").WithFields(logrus.Fields{
		"event_id":    event.EventID,
		"invoice_id":  event.InvoiceID,
		"routing_key": key,
	}).Info("published payment event")
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func routingKeyFor(status entities.WebhookStatus) string {
	if status == entities.WebhookStatusPaid {
		return RoutingKeyReceived
	}
	return RoutingKeyFailed
}
