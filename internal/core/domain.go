package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SourceOutbound Source = "outbound"
	SourceInbound  Source = "inbound"
)

type (
	// Source identifies which uploaded file a row or warning came from.
	Source string

	// OutboundRow is one tube-type/quantity pair from the kits-sent file.
	OutboundRow struct {
		TubeType string
		Quantity int64
	}

	// InboundRow is one tube-type/quantity pair from the samples-returned file.
	InboundRow struct {
		TubeType string
		Quantity int64
	}

	// TubeRecord is one reconciled line of the merged report.
	// Remaining may be negative: returned > sent is a data anomaly the
	// caller surfaces, not an error.
	TubeRecord struct {
		TubeType  string
		Sent      int64
		Returned  int64
		Remaining int64
		Month     string
	}

	// UnmatchedEntry marks a tube type present in exactly one input.
	UnmatchedEntry struct {
		TubeType string
		Source   Source
	}

	// MergedReport is the ordered result of a reconciliation. Row order is
	// first-seen order across the outbound rows, then the inbound rows.
	MergedReport struct {
		Month     string
		Records   []TubeRecord
		Unmatched []UnmatchedEntry
	}
)

var ErrEmptyMonth = errors.New("empty month label")

// EmptyInputError reports that a required input had no data rows.
type EmptyInputError struct {
	Source Source
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s dataset has no rows", e.Source)
}

// MalformedInputError reports an invalid quantity or header in a source
// file, with enough context for the caller to name file and row.
type MalformedInputError struct {
	Source Source
	Row    int // 1-based data row number, 0 when the header itself is bad
	Column string
	Value  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s file: %s (column %q)", e.Source, e.Reason, e.Column)
	}
	return fmt.Sprintf("%s file row %d: %s (column %q, value %q)", e.Source, e.Row, e.Reason, e.Column, e.Value)
}

// NormalizeTubeType folds a raw tube-type label into the matching key:
// surrounding whitespace trimmed, inner runs of whitespace collapsed,
// lowercased. "  Purple  Top " and "purple top" reconcile to one record.
func NormalizeTubeType(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Validate rejects rows that are nonsensical at the source level. A
// negative sent quantity is malformed input; a negative computed
// Remaining is not.
func (r OutboundRow) Validate() error {
	if NormalizeTubeType(r.TubeType) == "" {
		return errors.New("empty tube type")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("negative sent quantity %d", r.Quantity)
	}
	return nil
}

func (r InboundRow) Validate() error {
	if NormalizeTubeType(r.TubeType) == "" {
		return errors.New("empty tube type")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("negative returned quantity %d", r.Quantity)
	}
	return nil
}

// TotalSent sums the sent column across the report.
func (m MergedReport) TotalSent() int64 {
	var n int64
	for _, rec := range m.Records {
		n += rec.Sent
	}
	return n
}

// TotalReturned sums the returned column across the report.
func (m MergedReport) TotalReturned() int64 {
	var n int64
	for _, rec := range m.Records {
		n += rec.Returned
	}
	return n
}

// TotalRemaining sums the remaining column across the report.
func (m MergedReport) TotalRemaining() int64 {
	var n int64
	for _, rec := range m.Records {
		n += rec.Remaining
	}
	return n
}
