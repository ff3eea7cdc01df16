package kafka

import (
	"github.com/goccy/go-json"
)

// EventMessage 平台域事件，匹配成功、报告解决等动作由上游发到事件总线
type EventMessage struct {
	EventType string `json:"event_type"`
	UserID    uint64 `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	RelatedID string `json:"related_id"`
}

func decodeEventMessage(value []byte) (*EventMessage, error) {
	var event EventMessage
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
