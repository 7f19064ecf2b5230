package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/trainctl/pkg/l1/comm/mqtt"
	"github.com/robotalks/trainctl/pkg/l1/comm/websocket"
)

func TestNewConnector(t *testing.T) {
	conf := NewConfig()
	conf.RegistryURL = "ws://localhost:8420"
	c, err := conf.NewConnector()
	require.NoError(t, err)
	assert.IsType(t, &websocket.Connector{}, c)

	conf.RegistryURL = "mqtt://localhost:1883/layout/"
	c, err = conf.NewConnector()
	require.NoError(t, err)
	assert.IsType(t, &mqtt.Connector{}, c)

	conf.RegistryURL = "amqp://localhost"
	_, err = conf.NewConnector()
	assert.Error(t, err)

	conf.Ref.ID = ""
	_, err = conf.Connect()
	assert.Error(t, err)
}
