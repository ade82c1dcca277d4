package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/gig-manager/backend/internal/websocket"
)

func TestWebSocket_CommandsAndEvents(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(WebSocketUpgrade(hub))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() ws.Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg ws.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"subscribe","payload":{"import_id":"imp-1"}}`)))
	assert.Equal(t, ws.TypeSubscribeAck, read().Type)

	events := ws.NewEventBroadcaster(hub)
	events.RowCommitted("imp-2", "gigs", 2, "gig-9")
	events.RowCommitted("imp-1", "gigs", 3, "gig-10")
	msg := read()
	assert.Equal(t, ws.TypeImportRowCommitted, msg.Type)
	assert.EqualValues(t, 3, msg.Payload.(map[string]any)["row_index"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`nonsense`)))
	assert.Equal(t, ws.TypeError, read().Type)
}
