package core

// Reconcile merges an outbound (kits sent) and an inbound (samples
// returned) dataset for one month into a single report keyed by
// normalized tube type.
//
// Duplicate tube types within one input are summed, matching the
// aggregation the upstream reports use. Tube types present in exactly
// one input become UnmatchedEntry warnings, not errors: a kit sent but
// not yet returned is the expected case for kits still in transit.
//
// The function is a pure transform: identical inputs produce an
// identical report, including row order (first-seen across outbound
// then inbound).
func Reconcile(outbound []OutboundRow, inbound []InboundRow, month string) (MergedReport, error) {
	if month == "" {
		return MergedReport{}, ErrEmptyMonth
	}
	if len(outbound) == 0 {
		return MergedReport{}, &EmptyInputError{Source: SourceOutbound}
	}
	if len(inbound) == 0 {
		return MergedReport{}, &EmptyInputError{Source: SourceInbound}
	}

	type tally struct {
		sent     int64
		returned int64
		fromOut  bool
		fromIn   bool
	}

	tallies := make(map[string]*tally, len(outbound)+len(inbound))
	var order []string

	for i, row := range outbound {
		if err := row.Validate(); err != nil {
			return MergedReport{}, &MalformedInputError{
				Source: SourceOutbound,
				Row:    i + 1,
				Column: "quantity_sent",
				Value:  row.TubeType,
				Reason: err.Error(),
			}
		}
		key := NormalizeTubeType(row.TubeType)
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
			order = append(order, key)
		}
		t.sent += row.Quantity
		t.fromOut = true
	}

	for i, row := range inbound {
		if err := row.Validate(); err != nil {
			return MergedReport{}, &MalformedInputError{
				Source: SourceInbound,
				Row:    i + 1,
				Column: "quantity_returned",
				Value:  row.TubeType,
				Reason: err.Error(),
			}
		}
		key := NormalizeTubeType(row.TubeType)
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
			order = append(order, key)
		}
		t.returned += row.Quantity
		t.fromIn = true
	}

	report := MergedReport{Month: month, Records: make([]TubeRecord, 0, len(order))}
	for _, key := range order {
		t := tallies[key]
		report.Records = append(report.Records, TubeRecord{
			TubeType:  key,
			Sent:      t.sent,
			Returned:  t.returned,
			Remaining: t.sent - t.returned,
			Month:     month,
		})
		switch {
		case t.fromOut && !t.fromIn:
			report.Unmatched = append(report.Unmatched, UnmatchedEntry{TubeType: key, Source: SourceOutbound})
		case t.fromIn && !t.fromOut:
			report.Unmatched = append(report.Unmatched, UnmatchedEntry{TubeType: key, Source: SourceInbound})
		}
	}

	return report, nil
}
