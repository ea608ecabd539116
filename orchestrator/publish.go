package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	cfg "github.com/mockview/interview-pipeline/config"
)

// Sink hands finished answers to persistence.
type Sink interface {
	Deliver(ctx context.Context, d Delivery) error
	Close() error
}

// NewSink builds the sink named by the config. "none" discards deliveries.
func NewSink(c *cfg.Root, log *logrus.Entry) (Sink, error) {
	switch c.Sink.Kind {
	case "", "file":
		return &FileSink{Root: c.Paths.Outputs}, nil
	case "amqp":
		return DialAMQP(c.Sink.AMQPURL, c.Sink.Exchange, c.Sink.RoutingKey, log)
	case "mqtt":
		return DialMQTT(c.Sink.MQTTBroker, c.Sink.Topic, log)
	case "none":
		return nopSink{}, nil
	}
	return nil, fmt.Errorf("unknown sink kind %q", c.Sink.Kind)
}

type nopSink struct{}

func (nopSink) Deliver(context.Context, Delivery) error { return nil }
func (nopSink) Close() error                            { return nil }

// --- AMQP ---

type publisher interface {
	Publish(ctx context.Context, body json.RawMessage) error
}

type RabbitPublisher struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func NewRabbitPublisher(conn *amqp.Connection, exchange, routingKey string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true, // durable
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &RabbitPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, body json.RawMessage) error {
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

type AMQPSink struct {
	pub  publisher
	conn *amqp.Connection
	log  *logrus.Entry

	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
}

func DialAMQP(url, exchange, routingKey string, log *logrus.Entry) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	pub, err := NewRabbitPublisher(conn, exchange, routingKey)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp publisher: %w", err)
	}
	s := newAMQPSink(pub, log)
	s.conn = conn
	return s, nil
}

func newAMQPSink(pub publisher, log *logrus.Entry) *AMQPSink {
	return &AMQPSink{
		pub:         pub,
		log:         log,
		baseDelay:   500 * time.Millisecond,
		maxDelay:    10 * time.Second,
		maxAttempts: 5,
	}
}

func (s *AMQPSink) Deliver(ctx context.Context, d Delivery) error {
	body, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.publishWithRetry(ctx, body)
}

func (s *AMQPSink) publishWithRetry(ctx context.Context, msg json.RawMessage) error {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.pub.Publish(ctx, msg); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.baseDelay << (attempt - 1)
		if backoff > s.maxDelay {
			backoff = s.maxDelay
		}
		s.log.WithError(lastErr).WithField("attempt", attempt).Warn("publish failed, retrying")

		select {
		case <-time.After(backoff):

		case <-ctx.Done():
			return errors.New("publish canceled by context")
		}
	}

	return lastErr
}

func (s *AMQPSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// --- MQTT ---

type MQTTSink struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

func DialMQTT(broker, topic string, log *logrus.Entry) (*MQTTSink, error) {
	clientID := "interview-pipeline-" + uuid.New().String()
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetConnectTimeout(30 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.WithField("broker", broker).Info("connected to mqtt")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return newMQTTSink(client, topic), nil
}

func newMQTTSink(client mqtt.Client, topic string) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, timeout: 10 * time.Second}
}

// Deliver publishes at QoS 1 under <topic>/<session id>.
func (s *MQTTSink) Deliver(_ context.Context, d Delivery) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic+"/"+d.SessionID, 1, false, payload)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("mqtt publish to %s timed out", s.topic)
	}
	return token.Error()
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
