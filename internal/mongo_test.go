package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phipay/config"
)

func TestNewMongoClientRequiresEnabledConfig(t *testing.T) {
	conf := &config.Config{}
	client, err := NewMongoClient(conf)
	assert.Error(t, err, "a disabled mongo section must not yield a client")
	assert.Nil(t, client)

	conf.Mongo.Enabled = true
	conf.Mongo.Host = "127.0.0.1"
	conf.Mongo.Port = "27017"
	conf.Mongo.Database = "phipay"
	client, err = NewMongoClient(conf)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "phipay", client.database)
}
