package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/airport-weather/internal/config"
	"github.com/i474232898/airport-weather/internal/weather"
)

// Submitter accepts a reading of the named kind for a station.
type Submitter interface {
	Submit(code, kindName string, r weather.Reading) error
}

// Subscriber feeds readings published over MQTT into the weather service.
// Topics end in <code>/<kind>; payloads are JSON readings.
type Subscriber struct {
	client    mqtt.Client
	topic     string
	submitter Submitter
	logger    *slog.Logger

	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSubscriber configures a client for the broker in cfg. It does not connect.
func NewSubscriber(cfg *config.AppConfig, submitter Submitter, logger *slog.Logger) *Subscriber {
	s := &Subscriber{
		topic:     cfg.MQTTTopic,
		submitter: submitter,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
		// Subscriptions do not survive a clean-session reconnect.
		if err := s.subscribe(c); err != nil {
			logger.Error("mqtt subscribe failed", "topic", s.topic, "error", err)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect establishes the broker connection. Subscribing happens in the
// on-connect handler so it is repeated after every reconnect.
func (s *Subscriber) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return errors.New("subscriber stopped")
	default:
	}

	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			s.client.Disconnect(0)
			return ctx.Err()
		case <-s.stopCh:
			s.client.Disconnect(0)
			return errors.New("subscriber stopped")
		default:
		}
	}
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	token := c.Subscribe(s.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", s.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, err)
	}

	s.logger.Info("subscribed to mqtt topic", "topic", s.topic)
	return nil
}

// handleMessage decodes one reading and submits it. Rejected messages are
// logged and dropped.
func (s *Subscriber) handleMessage(topic string, payload []byte) {
	code, kind, err := parseTopic(topic)
	if err != nil {
		s.logger.Warn("ignoring mqtt message", "topic", topic, "error", err)
		return
	}

	var r weather.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		s.logger.Warn("failed to parse reading", "topic", topic, "error", err, "payload", string(payload))
		return
	}

	if err := s.submitter.Submit(code, kind, r); err != nil {
		s.logger.Warn("reading rejected", "station", code, "kind", kind, "error", err)
		return
	}

	s.logger.Debug("reading accepted", "station", code, "kind", kind, "mean", r.Mean)
}

// parseTopic extracts the station code and kind from the last two levels.
func parseTopic(topic string) (code, kind string, err error) {
	levels := strings.Split(topic, "/")
	if len(levels) < 2 {
		return "", "", fmt.Errorf("topic %q has no <code>/<kind> suffix", topic)
	}

	code, kind = levels[len(levels)-2], levels[len(levels)-1]
	if code == "" || kind == "" {
		return "", "", fmt.Errorf("topic %q has an empty code or kind", topic)
	}
	return code, kind, nil
}

// IsConnected returns whether the client is connected.
func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

// Disconnect stops the subscriber and closes the connection. Safe to call
// more than once.
func (s *Subscriber) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.IsConnected() {
		token := s.client.Unsubscribe(s.topic)
		token.WaitTimeout(2 * time.Second)
	}
	s.client.Disconnect(250)

	s.setConnected(false)
	s.logger.Info("mqtt subscriber disconnected")
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
