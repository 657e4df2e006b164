package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaDispatchPublishesMessage(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != "*New Order*" {
			return fmt.Errorf("unexpected value %q", val)
		}
		return nil
	})

	k := NewKafkaWithProducer(producer, "orders", "963111111111", nil)
	require.NoError(t, k.Dispatch(context.Background(), "*New Order*"))
	require.NoError(t, k.Close())
}

func TestKafkaDispatchFailure(t *testing.T) {
	config := mocks.NewTestConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaWithProducer(producer, "orders", "963111111111", nil)
	err := k.Dispatch(context.Background(), "*New Order*")
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, k.Close())
}

func TestKafkaMessageCarriesKeyAndDispatchID(t *testing.T) {
	k := NewKafkaWithProducer(nil, "orders", "963111111111", nil)
	msg := k.message("hello")

	assert.Equal(t, "orders", msg.Topic)
	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "963111111111", string(key))

	require.Len(t, msg.Headers, 1)
	assert.Equal(t, headerDispatchID, string(msg.Headers[0].Key))
	_, err = uuid.Parse(string(msg.Headers[0].Value))
	assert.NoError(t, err)

	assert.Error(t, k.Dispatch(context.Background(), "hello"), "nil producer")
}
