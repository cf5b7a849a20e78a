// Package mqtt provides a minimal MQTT publisher used by the MQTT key
// sink (internal/keysink) to broadcast key-state transitions to a remote
// watcher. It is a notification side-channel, not a managed broker
// client: no TLS certificate management, no Home Assistant discovery.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kd9qzo/cwtonequeue/internal/conf"
	"github.com/kd9qzo/cwtonequeue/internal/logging"
)

// Client is the subset of MQTT behavior the key sink needs.
type Client interface {
	Connect(ctx context.Context) error
	Publish(ctx context.Context, topic, payload string) error
	IsConnected() bool
	Disconnect()
}

// Config holds the connection parameters for a single broker.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type client struct {
	config         Config
	internalClient mqtt.Client

	mu              sync.Mutex
	lastConnAttempt time.Time
	reconnectTimer  *time.Timer
	reconnectStop   chan struct{}

	logger *slog.Logger
}

// NewClient builds an MQTT publisher from the KeySink.MQTT settings.
func NewClient(settings *conf.Settings) Client {
	logger := logging.ForService("mqtt")
	if logger == nil {
		logger = slog.Default().With("service", "mqtt")
	}
	return &client{
		config: Config{
			Broker:   settings.KeySink.MQTT.Broker,
			ClientID: "cwtonequeue-" + uuid.NewString(),
			Username: settings.KeySink.MQTT.Username,
			Password: settings.KeySink.MQTT.Password,
		},
		reconnectStop: make(chan struct{}),
		logger:        logger,
	}
}

// Connect establishes the connection to the broker, rate-limited to at
// most one attempt per minute to avoid hammering a broker that is down.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastConnAttempt) < time.Minute {
		return fmt.Errorf("mqtt: connection attempt too recent")
	}
	c.lastConnAttempt = time.Now()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.config.Broker)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetConnectRetry(false)

	c.internalClient = mqtt.NewClient(opts)

	token := c.internalClient.Connect()
	if !token.WaitTimeout(30 * time.Second) {
		return fmt.Errorf("mqtt: connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: connect: %w", err)
	}
	return nil
}

// Publish sends payload to topic, failing fast if not connected.
func (c *client) Publish(ctx context.Context, topic, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnectedLocked() {
		return fmt.Errorf("mqtt: not connected")
	}

	token := c.internalClient.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	return token.Error()
}

// IsConnected reports whether the underlying client believes it is
// connected to the broker.
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnectedLocked()
}

func (c *client) isConnectedLocked() bool {
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect tears down the connection and stops any pending reconnect.
func (c *client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient != nil && c.internalClient.IsConnected() {
		c.internalClient.Disconnect(250)
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	select {
	case <-c.reconnectStop:
	default:
		close(c.reconnectStop)
	}
}

func (c *client) onConnect(mqtt.Client) {
	c.logger.Info("connected to mqtt broker", "broker", c.config.Broker)
}

func (c *client) onConnectionLost(_ mqtt.Client, err error) {
	c.logger.Warn("mqtt connection lost", "broker", c.config.Broker, "error", err)
	c.startReconnectTimer()
}

func (c *client) startReconnectTimer() {
	c.reconnectTimer = time.AfterFunc(time.Minute, func() {
		select {
		case <-c.reconnectStop:
			return
		default:
			c.reconnectWithBackoff()
		}
	})
}

func (c *client) reconnectWithBackoff() {
	backoff := time.Second
	const maxBackoff = 5 * time.Minute

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := c.Connect(ctx)
		cancel()

		if err == nil {
			c.logger.Info("reconnected to mqtt broker", "broker", c.config.Broker)
			c.startReconnectTimer()
			return
		}

		c.logger.Warn("mqtt reconnect failed, retrying", "broker", c.config.Broker, "error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		case <-c.reconnectStop:
			return
		}
	}
}
