// Package keysink provides implementations of tonequeue.KeySink: the
// downstream collaborator notified with a closed/open level on every
// dequeue cycle.
package keysink

import (
	"context"
	"log/slog"

	"github.com/kd9qzo/cwtonequeue/internal/conf"
	"github.com/kd9qzo/cwtonequeue/internal/logging"
	"github.com/kd9qzo/cwtonequeue/internal/mqtt"
	"github.com/kd9qzo/cwtonequeue/internal/tonequeue"
)

// Null discards key-state notifications. Equivalent to
// tonequeue.NullKeySink, provided here so callers only need to import
// this package when wiring a sink from configuration.
type Null struct{}

// Notify implements tonequeue.KeySink.
func (Null) Notify(bool) {}

var _ tonequeue.KeySink = Null{}

// Logger logs every key-state transition at Debug level. Useful during
// development and in the CLI's keyer mode before a real relay is wired up.
type Logger struct {
	log *slog.Logger
}

// NewLogger returns a Logger key sink. If logging has not been
// initialized, it falls back to the process default logger.
func NewLogger() *Logger {
	log := logging.ForService("keysink")
	if log == nil {
		log = slog.Default().With("service", "keysink")
	}
	return &Logger{log: log}
}

// Notify implements tonequeue.KeySink.
func (l *Logger) Notify(closed bool) {
	l.log.Debug("key state", "closed", closed)
}

var _ tonequeue.KeySink = (*Logger)(nil)

// MQTT publishes "1" (key down) or "0" (key up) to a configured topic.
// Notify is called by the queue while its internal mutex is held, so
// Publish must never block for long; the underlying
// mqtt.Client enforces its own publish timeout and Notify swallows any
// error beyond logging it, since there is nothing a lock-holding caller
// can usefully do about a failed broadcast.
type MQTT struct {
	client mqtt.Client
	topic  string
	log    *slog.Logger
}

// NewMQTT connects an MQTT publisher from settings.KeySink.MQTT and
// returns the ready-to-use key sink. The caller is responsible for
// calling Close when done.
func NewMQTT(ctx context.Context, settings *conf.Settings) (*MQTT, error) {
	log := logging.ForService("keysink.mqtt")
	if log == nil {
		log = slog.Default().With("service", "keysink.mqtt")
	}

	c := mqtt.NewClient(settings)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	return &MQTT{
		client: c,
		topic:  settings.KeySink.MQTT.Topic,
		log:    log,
	}, nil
}

// Notify implements tonequeue.KeySink.
func (m *MQTT) Notify(closed bool) {
	payload := "0"
	if closed {
		payload = "1"
	}
	if err := m.client.Publish(context.Background(), m.topic, payload); err != nil {
		m.log.Warn("failed to publish key state", "topic", m.topic, "error", err)
	}
}

// Close disconnects the underlying MQTT client.
func (m *MQTT) Close() {
	m.client.Disconnect()
}

var _ tonequeue.KeySink = (*MQTT)(nil)

// New builds the key sink configured by settings.KeySink. It returns
// Null when MQTT is disabled, or an MQTT sink when enabled. The second
// return value is a cleanup function (always non-nil, a no-op for
// Null/Logger) the caller should invoke on shutdown.
func New(ctx context.Context, settings *conf.Settings) (tonequeue.KeySink, func(), error) {
	if !settings.KeySink.MQTT.Enabled {
		return Null{}, func() {}, nil
	}
	sink, err := NewMQTT(ctx, settings)
	if err != nil {
		return nil, func() {}, err
	}
	return sink, sink.Close, nil
}
