package amqp

import (
	"testing"
	"time"
)

func TestMergeAuditMessageJSON(t *testing.T) {
	msg := &MergeAuditMessage{
		Month:          "2025-07",
		TubeTypes:      4,
		TotalSent:      21,
		TotalReturned:  12,
		TotalRemaining: 9,
		Warnings:       2,
		Timestamp:      time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := MergeAuditMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *got != *msg {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}

	if _, err := MergeAuditMessageFromJSON([]byte("{invalid")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
