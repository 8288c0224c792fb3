package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"tuberecon/internal/amqp"
	"tuberecon/internal/cache"
	"tuberecon/internal/core"
	applog "tuberecon/internal/log"
	"tuberecon/internal/tabular"
)

// AuditPublisher publishes merge summaries for the report log.
// *amqp.Client satisfies it; a nil publisher disables auditing.
type AuditPublisher interface {
	PublishMergeAudit(ctx context.Context, msg *amqp.MergeAuditMessage) error
}

// MergeService runs the reconciliation pipeline for one upload and
// keeps the finished report in a TTL cache so the download handler can
// fetch it without any server-side persistence.
type MergeService struct {
	kits      core.KitMap
	reports   *cache.LRUCache[core.MergedReport]
	publisher AuditPublisher
}

func NewMergeService(reports *cache.LRUCache[core.MergedReport], publisher AuditPublisher) *MergeService {
	return &MergeService{
		kits:      core.DefaultKitMap(),
		reports:   reports,
		publisher: publisher,
	}
}

// Merge parses both uploads, reconciles them for the given month, and
// caches the result. The returned token retrieves the report for
// download until the cache TTL runs out. Parse and reconcile errors
// come back typed (core.EmptyInputError / core.MalformedInputError) so
// the handler can name the file and row.
func (s *MergeService) Merge(ctx context.Context, outbound, inbound io.Reader, monthRaw string) (string, core.MergedReport, error) {
	month, err := core.ParseMonthLabel(monthRaw, time.Now())
	if err != nil {
		return "", core.MergedReport{}, err
	}

	outRows, err := tabular.ParseOutbound(outbound, s.kits)
	if err != nil {
		return "", core.MergedReport{}, err
	}
	inRows, err := tabular.ParseInbound(inbound)
	if err != nil {
		return "", core.MergedReport{}, err
	}

	report, err := core.Reconcile(outRows, inRows, month)
	if err != nil {
		return "", core.MergedReport{}, err
	}

	token := newReportToken()
	s.reports.Set(token, report)

	slog.InfoContext(ctx, "Merge completed",
		applog.FieldComponent, applog.ComponentMerge,
		applog.FieldMonth, month,
		applog.FieldRecordCount, len(report.Records),
		applog.FieldWarningCount, len(report.Unmatched),
		applog.FieldReportToken, token)

	// Best effort: a failed audit publish never fails the merge.
	if err := s.publishAudit(ctx, report); err != nil {
		slog.ErrorContext(ctx, "Failed to publish merge audit", applog.FieldError, err, applog.FieldMonth, month)
	}

	return token, report, nil
}

// Report looks up a cached report by download token.
func (s *MergeService) Report(token string) (core.MergedReport, bool) {
	return s.reports.Get(token)
}

func (s *MergeService) publishAudit(ctx context.Context, report core.MergedReport) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishMergeAudit(ctx, &amqp.MergeAuditMessage{
		Month:          report.Month,
		TubeTypes:      len(report.Records),
		TotalSent:      report.TotalSent(),
		TotalReturned:  report.TotalReturned(),
		TotalRemaining: report.TotalRemaining(),
		Warnings:       len(report.Unmatched),
		Timestamp:      time.Now().UTC(),
	})
}

func newReportToken() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("report_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
