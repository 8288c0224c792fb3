package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"tuberecon/internal/amqp"
)

type fakeWriter struct {
	appended []*amqp.MergeAuditMessage
	err      error
}

func (f *fakeWriter) Append(_ context.Context, msg *amqp.MergeAuditMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, msg)
	return "Merge Log!A2:G2", nil
}

func testMessage() *amqp.MergeAuditMessage {
	return &amqp.MergeAuditMessage{
		Month:          "2025-06",
		TubeTypes:      4,
		TotalSent:      120,
		TotalReturned:  95,
		TotalRemaining: 25,
		Warnings:       1,
		Timestamp:      time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAuditWorker_HandleAuditMessage(t *testing.T) {
	writer := &fakeWriter{}
	w := NewAuditWorker(writer)

	if err := w.HandleAuditMessage(context.Background(), testMessage()); err != nil {
		t.Fatalf("HandleAuditMessage() error = %v", err)
	}
	if len(writer.appended) != 1 {
		t.Fatalf("appended %d messages, want 1", len(writer.appended))
	}
	if writer.appended[0].Month != "2025-06" {
		t.Errorf("month = %q, want %q", writer.appended[0].Month, "2025-06")
	}
}

func TestAuditWorker_WriterFailure(t *testing.T) {
	w := NewAuditWorker(&fakeWriter{err: errors.New("quota exceeded")})
	if err := w.HandleAuditMessage(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error so the message gets requeued")
	}
}

func TestAuditWorker_NilWriterDropsMessage(t *testing.T) {
	w := NewAuditWorker(nil)
	if err := w.HandleAuditMessage(context.Background(), testMessage()); err != nil {
		t.Fatalf("HandleAuditMessage() error = %v, want nil with no writer", err)
	}
}
