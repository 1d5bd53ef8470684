package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventRecordAdded   EventType = "record.added"
	EventRecordDeleted EventType = "record.deleted"
)

// RecordEvent announces a change to the record collection. It carries no
// record payload: consumers reload the collection from storage.
type RecordEvent struct {
	Type      EventType `json:"type"`
	RecordID  string    `json:"recordId"`
	Version   uint64    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordEvent(t EventType, recordID string, version uint64) *RecordEvent {
	return &RecordEvent{
		Type:      t,
		RecordID:  recordID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var msg RecordEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != EventRecordAdded && msg.Type != EventRecordDeleted {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
