package reportlog

import (
	"context"

	"tuberecon/internal/amqp"
)

// Ports for outbound report-log adapters.
type (
	// Writer appends one merge summary row to the shared report log.
	Writer interface {
		Append(ctx context.Context, msg *amqp.MergeAuditMessage) (rowRef string, err error)
	}
)
