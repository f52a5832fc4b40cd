package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"nurse-ats-go/internal/config"
	"nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/processor"
)

// RabbitMQ publishes pipeline events. One topic exchange carries all resume
// events; routing keys distinguish them.
type RabbitMQ struct {
	conn         *amqp.Connection
	channelPool  sync.Pool
	exchangeMap  map[string]bool
	exchangeLock sync.Mutex
	cfg          *config.RabbitMQConfig
}

// NewRabbitMQ connects and declares the resume-events exchange.
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil {
		return nil, fmt.Errorf("rabbitmq config must not be nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	mq := &RabbitMQ{
		conn:        conn,
		exchangeMap: make(map[string]bool),
		cfg:         cfg,
	}
	mq.channelPool = sync.Pool{
		New: func() interface{} {
			ch, err := conn.Channel()
			if err != nil {
				logger.Error().Err(err).Msg("failed to open rabbitmq channel")
				return nil
			}
			return ch
		},
	}

	if err := mq.ensureExchange(cfg.ResumeEventsExchange, "topic", true); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info().Str("exchange", cfg.ResumeEventsExchange).Msg("rabbitmq connected")
	return mq, nil
}

func (r *RabbitMQ) getChannel() *amqp.Channel {
	ch := r.channelPool.Get()
	if ch == nil {
		newCh, err := r.conn.Channel()
		if err != nil {
			logger.Error().Err(err).Msg("failed to open rabbitmq channel")
			return nil
		}
		return newCh
	}
	return ch.(*amqp.Channel)
}

func (r *RabbitMQ) putChannel(ch *amqp.Channel) {
	if ch != nil {
		r.channelPool.Put(ch)
	}
}

func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}

func (r *RabbitMQ) ensureExchange(exchangeName, exchangeType string, durable bool) error {
	if exchangeName == "" {
		return fmt.Errorf("exchange name must not be empty")
	}

	r.exchangeLock.Lock()
	defer r.exchangeLock.Unlock()
	if r.exchangeMap[exchangeName] {
		return nil
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("failed to get rabbitmq channel")
	}
	defer r.putChannel(ch)

	if err := ch.ExchangeDeclare(exchangeName, exchangeType, durable, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchangeName, err)
	}
	r.exchangeMap[exchangeName] = true
	return nil
}

// PublishJSON publishes data as a persistent JSON message.
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ch := r.getChannel()
	if ch == nil {
		return fmt.Errorf("failed to get rabbitmq channel")
	}
	defer r.putChannel(ch)

	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s/%s: %w", exchangeName, routingKey, err)
	}
	return nil
}

// PublishResumeParsed announces a completed parse on the configured routing
// key.
func (r *RabbitMQ) PublishResumeParsed(ctx context.Context, event *processor.ResumeParsedEvent) error {
	return r.PublishJSON(ctx, r.cfg.ResumeEventsExchange, r.cfg.ParsedRoutingKey, event)
}
