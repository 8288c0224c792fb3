package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tuberecon/internal/amqp"
	applog "tuberecon/internal/log"
	"tuberecon/internal/reportlog"
)

// AuditWorker forwards merge audit messages to the shared report log.
type AuditWorker struct {
	log reportlog.Writer
}

func NewAuditWorker(log reportlog.Writer) *AuditWorker {
	return &AuditWorker{log: log}
}

// HandleAuditMessage processes a single merge audit message from AMQP.
// Returning an error requeues the message.
func (w *AuditWorker) HandleAuditMessage(ctx context.Context, msg *amqp.MergeAuditMessage) error {
	slog.InfoContext(ctx, "Processing merge audit message",
		applog.FieldMonth, msg.Month,
		"tube_types", msg.TubeTypes,
		"warnings", msg.Warnings)

	if w.log == nil {
		slog.WarnContext(ctx, "No report log writer configured, dropping audit message",
			applog.FieldMonth, msg.Month)
		return nil
	}

	ref, err := w.log.Append(ctx, msg)
	if err != nil {
		return fmt.Errorf("append to report log: %w", err)
	}

	slog.InfoContext(ctx, "Merge audit logged",
		applog.FieldMonth, msg.Month,
		applog.FieldSheetsRef, ref)

	return nil
}
