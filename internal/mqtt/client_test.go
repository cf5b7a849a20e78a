package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kd9qzo/cwtonequeue/internal/conf"
)

func testSettings() *conf.Settings {
	s := &conf.Settings{}
	s.KeySink.MQTT.Broker = "tcp://127.0.0.1:1"
	s.KeySink.MQTT.Topic = "cwtonequeue/key"
	return s
}

func TestNewClientDerivesAUniqueClientID(t *testing.T) {
	a := NewClient(testSettings()).(*client)
	b := NewClient(testSettings()).(*client)

	assert.NotEqual(t, a.config.ClientID, b.config.ClientID)
	assert.Contains(t, a.config.ClientID, "cwtonequeue-")
}

func TestIsConnectedFalseBeforeConnect(t *testing.T) {
	c := NewClient(testSettings())
	assert.False(t, c.IsConnected())
}

func TestDisconnectBeforeConnectDoesNotPanic(t *testing.T) {
	c := NewClient(testSettings())
	assert.NotPanics(t, c.Disconnect)
}

func TestPublishBeforeConnectFails(t *testing.T) {
	c := NewClient(testSettings())
	err := c.Publish(context.Background(), "cwtonequeue/key", "1")
	assert.Error(t, err)
}

func TestConnectFailsFastOnUnreachableBroker(t *testing.T) {
	c := NewClient(testSettings())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.Connect(ctx)
	require.Error(t, err)
}
