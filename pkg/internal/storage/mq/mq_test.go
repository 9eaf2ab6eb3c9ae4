package mq_test

import (
	"context"
	"testing"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/storage/mq"
)

func TestRegisteredTypes(t *testing.T) {
	assert.Equal(t, []configs.MQType{configs.MQTypeGoChannel, configs.MQTypeNATS}, mq.RegisteredTypes())
}

func TestGoChannelRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mq.New(ctx, &configs.MQConfig{
		Type:      configs.MQTypeGoChannel,
		GoChannel: configs.MQChannelConfig{OutputBuffer: 4},
	}, nil)
	require.NoError(t, err)

	defer client.Close()

	assert.Equal(t, configs.MQTypeGoChannel, client.Type())

	ch, err := client.Subscribe(ctx, "df.test")
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, "df.test", message.NewMessage(watermill.NewUUID(), []byte("hello"))))

	select {
	case msg := <-ch:
		assert.Equal(t, "hello", string(msg.Payload))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestUnsupportedType(t *testing.T) {
	_, err := mq.New(context.Background(), &configs.MQConfig{Type: "kafka"}, nil)
	require.Error(t, err)
}
