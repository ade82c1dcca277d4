package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeImportRowCommitted MessageType = "import.row_committed"
	TypeImportRowFailed    MessageType = "import.row_failed"
	TypeImportCompleted    MessageType = "import.completed"
	TypeNotification       MessageType = "notification"

	// Client -> Server command types
	TypeSubscribe   MessageType = "subscribe"
	TypeUnsubscribe MessageType = "unsubscribe"
	TypePing        MessageType = "ping"

	// Server -> Client response types
	TypeSubscribeAck   MessageType = "subscribe.ack"
	TypeUnsubscribeAck MessageType = "unsubscribe.ack"
	TypePong           MessageType = "pong"
	TypeError          MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// ImportRowPayload is the payload for import.row_committed and import.row_failed events.
type ImportRowPayload struct {
	ImportID   string `json:"import_id"`
	ImportType string `json:"import_type"`
	RowIndex   int    `json:"row_index"`
	RecordID   string `json:"record_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ImportCompletedPayload is the payload for import.completed events.
type ImportCompletedPayload struct {
	ImportID     string   `json:"import_id"`
	ImportType   string   `json:"import_type"`
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// SubscriptionPayload names the import a client wants events for.
type SubscriptionPayload struct {
	ImportID string `json:"import_id"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}

// command is an inbound client message.
type command struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
