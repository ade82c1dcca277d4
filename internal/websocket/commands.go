package websocket

import (
	"encoding/json"
)

// HandleCommand applies a client command and returns the reply to send back.
func HandleCommand(client *Client, raw []byte) Message {
	var cmd command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return NewMessage(TypeError, ErrorPayload{Code: "invalid_message", Message: "Message is not valid JSON"})
	}

	switch cmd.Type {
	case TypePing:
		return NewMessage(TypePong, nil)

	case TypeSubscribe, TypeUnsubscribe:
		var sub SubscriptionPayload
		if err := json.Unmarshal(cmd.Payload, &sub); err != nil || sub.ImportID == "" {
			return NewMessage(TypeError, ErrorPayload{
				Code:         "invalid_payload",
				Message:      "import_id is required",
				OriginalType: string(cmd.Type),
			})
		}
		if cmd.Type == TypeSubscribe {
			client.Subscribe(sub.ImportID)
			return NewMessage(TypeSubscribeAck, sub)
		}
		client.Unsubscribe(sub.ImportID)
		return NewMessage(TypeUnsubscribeAck, sub)
	}

	return NewMessage(TypeError, ErrorPayload{
		Code:         "unknown_type",
		Message:      "Unsupported message type",
		OriginalType: string(cmd.Type),
	})
}
