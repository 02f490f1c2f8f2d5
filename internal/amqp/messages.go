package amqp

import (
	"encoding/json"
	"time"
)

// ScenarioSyncMessage is a lightweight message for exporting a saved scenario
// to Google Sheets. It carries only the ID and version; the worker fetches
// the full scenario from the database.
type ScenarioSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewScenarioSyncMessage creates a new sync message with just ID and version.
func NewScenarioSyncMessage(id, version int64) *ScenarioSyncMessage {
	return &ScenarioSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ScenarioSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ScenarioSyncMessageFromJSON creates a message from JSON bytes.
func ScenarioSyncMessageFromJSON(data []byte) (*ScenarioSyncMessage, error) {
	var msg ScenarioSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
