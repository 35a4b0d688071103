package logger

import (
	"context"
	"testing"

	"github.com/muhammadchandra19/token-exchange/pkg/errors"
	"github.com/muhammadchandra19/token-exchange/pkg/util"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in     string
		expect Level
	}{
		{"debug", DebugLevel},
		{" WARN ", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"verbose", InfoLevel},
		{"", InfoLevel},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expect, ParseLevel(tc.in), tc.in)
	}
}

func TestLoggerContextAppendsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	ctx := util.WithRequestID(context.Background(), "req-1")
	l.InfoContext(ctx, "deposit", NewField("asset", "01HX"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "01HX", fields["asset"])
		assert.NotContains(t, fields, "command")
	}
}

func TestLoggerContextAppendsCommandAndClient(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	ctx := util.WithCommand(util.WithClientID(context.Background(), "wallet-1"), "withdraw")
	l.WarnContext(ctx, "Command rejected")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "withdraw", fields["command"])
		assert.Equal(t, "wallet-1", fields["client_id"])
	}
}

func TestLoggerWithFieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core)).WithFields(NewField("component", "engine"))

	l.Error(errors.NewTracer("persist").Wrap(assert.AnError), NewField("seq", 3))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "persist", entries[0].Message)
		assert.Equal(t, "engine", entries[0].ContextMap()["component"])
		assert.NotEmpty(t, entries[0].Stack)
	}
}
