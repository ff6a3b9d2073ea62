package eventbus

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := New(logger)
	defer bus.Close()

	msgs, err := bus.Subscribe("import.session.committed")
	require.NoError(t, err)

	require.NoError(t, bus.Publish("import.session.committed", map[string]string{
		"session_id": "s-1",
	}))

	select {
	case msg := <-msgs:
		var payload map[string]string
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		require.Equal(t, "s-1", payload["session_id"])
		require.Equal(t, "import.session.committed", msg.Metadata.Get("topic"))
		require.NotEmpty(t, middleware.MessageCorrelationID(msg))
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestEventBus_PublishRejectsUnmarshalablePayload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := New(logger)
	defer bus.Close()

	require.Error(t, bus.Publish("import.session.committed", make(chan int)))
}
