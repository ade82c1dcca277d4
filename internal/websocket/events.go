package websocket

import (
	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/importer"
)

// EventBroadcaster turns import progress into WebSocket events. Events are
// published on the import's ID so clients can follow a single import.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// RowCommitted implements importer.Observer.
func (b *EventBroadcaster) RowCommitted(importID string, t importer.ImportType, rowIndex int, recordID string) {
	b.publish(importID, NewMessage(TypeImportRowCommitted, ImportRowPayload{
		ImportID:   importID,
		ImportType: string(t),
		RowIndex:   rowIndex,
		RecordID:   recordID,
	}))
}

// RowFailed implements importer.Observer.
func (b *EventBroadcaster) RowFailed(importID string, t importer.ImportType, rowIndex int, err error) {
	b.publish(importID, NewMessage(TypeImportRowFailed, ImportRowPayload{
		ImportID:   importID,
		ImportType: string(t),
		RowIndex:   rowIndex,
		Error:      err.Error(),
	}))
}

// BatchCompleted implements importer.Observer.
func (b *EventBroadcaster) BatchCompleted(importID string, t importer.ImportType, result importer.CommitResult) {
	b.publish(importID, NewMessage(TypeImportCompleted, ImportCompletedPayload{
		ImportID:     importID,
		ImportType:   string(t),
		SuccessCount: result.SuccessCount,
		ErrorCount:   len(result.Errors),
		Errors:       result.Errors,
	}))
}

// BroadcastNotification sends a notification to every client.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string, dismissible bool) {
	b.publish("", NewMessage(TypeNotification, NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: dismissible,
	}))
}

func (b *EventBroadcaster) publish(topic string, msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Error().Err(err).Str("type", string(msg.Type)).Msg("Failed to marshal WebSocket message")
		return
	}
	b.hub.Publish(topic, data)
}
