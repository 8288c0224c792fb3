package amqp

import (
	"encoding/json"
	"time"
)

// MergeAuditMessage summarizes one completed reconciliation for the
// downstream report log. It carries the full summary so the consumer
// never needs access to the (session-scoped) uploaded data.
type MergeAuditMessage struct {
	Month          string    `json:"month"`
	TubeTypes      int       `json:"tube_types"`
	TotalSent      int64     `json:"total_sent"`
	TotalReturned  int64     `json:"total_returned"`
	TotalRemaining int64     `json:"total_remaining"`
	Warnings       int       `json:"warnings"`
	Timestamp      time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *MergeAuditMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MergeAuditMessageFromJSON creates a message from JSON bytes
func MergeAuditMessageFromJSON(data []byte) (*MergeAuditMessage, error) {
	var msg MergeAuditMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
