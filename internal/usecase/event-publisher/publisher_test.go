package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	eventv1 "github.com/muhammadchandra19/token-exchange/internal/domain/event/v1"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	logger_mock "github.com/muhammadchandra19/token-exchange/pkg/logger/mock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvents() []eventv1.Event {
	ts := time.Unix(1700000000, 0).UTC()
	return []eventv1.Event{
		{Seq: 4, Type: eventv1.TypeTransfer, Timestamp: ts, Payload: eventv1.Transfer{Asset: "ASSET01", From: "0xU1", To: "0xEX", Amount: uint256.NewInt(30)}},
		{Seq: 5, Type: eventv1.TypeDeposit, Timestamp: ts, Payload: eventv1.Deposit{Asset: "ASSET01", Holder: "0xU1", Amount: uint256.NewInt(30), Balance: uint256.NewInt(30)}},
	}
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisherWithWriter(w, logger.NewNop())

	events := sampleEvents()
	require.NoError(t, p.Publish(context.Background(), events))
	require.Len(t, w.msgs, 2)

	for i, msg := range w.msgs {
		assert.Equal(t, "ASSET01", string(msg.Key))
		assert.Equal(t, events[i].Timestamp, msg.Time)

		var decoded eventv1.Event
		require.NoError(t, json.Unmarshal(msg.Value, &decoded))
		assert.Equal(t, events[i], decoded)
	}

	assert.Equal(t, []kafka.Header{
		{Key: HeaderEventType, Value: []byte("deposit")},
		{Key: HeaderSeq, Value: []byte("5")},
	}, w.msgs[1].Headers)
}

func TestPublisher_PublishEmptyIsNoop(t *testing.T) {
	w := &recordingWriter{err: errors.New("must not be called")}
	p := NewPublisherWithWriter(w, logger.NewNop())

	assert.NoError(t, p.Publish(context.Background(), nil))
}

func TestPublisher_PublishError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	brokerErr := errors.New("leader not available")
	log := logger_mock.NewMockInterface(ctrl)
	log.EXPECT().ErrorContext(gomock.Any(), brokerErr,
		logger.Field{Key: "first_seq", Value: uint64(4)},
		logger.Field{Key: "count", Value: 2},
	)

	p := NewPublisherWithWriter(&recordingWriter{err: brokerErr}, log)

	err := p.Publish(context.Background(), sampleEvents())
	require.Error(t, err)
	assert.ErrorIs(t, err, brokerErr)
}

func TestPublisher_Close(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, NewPublisherWithWriter(w, logger.NewNop()).Close())
	assert.True(t, w.closed)
}
