package tabular

import (
	"io"

	"tuberecon/internal/core"
)

// ParseInbound reads a samples-returned CSV. The lab file puts the
// header on the first row; the tube type is usually labeled "color"
// and the quantity "Num", but any alias pair is accepted.
func ParseInbound(r io.Reader) ([]core.InboundRow, error) {
	records, err := readAll(r, core.SourceInbound)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &core.EmptyInputError{Source: core.SourceInbound}
	}

	header := records[0]
	tubeCol := findColumn(header, tubeTypeAliases)
	qtyCol := findColumn(header, returnedAliases)
	if tubeCol < 0 {
		return nil, &core.MalformedInputError{
			Source: core.SourceInbound,
			Column: "tube_type",
			Reason: "missing tube-type column",
		}
	}
	if qtyCol < 0 {
		return nil, &core.MalformedInputError{
			Source: core.SourceInbound,
			Column: "quantity",
			Reason: "missing quantity column",
		}
	}

	var rows []core.InboundRow
	for i, record := range records[1:] {
		tube := cell(record, tubeCol)
		raw := cell(record, qtyCol)
		if core.NormalizeTubeType(tube) == "" && raw == "" {
			continue
		}
		qty, ok := parseQuantity(raw)
		if !ok {
			return nil, &core.MalformedInputError{
				Source: core.SourceInbound,
				Row:    i + 1,
				Column: header[qtyCol],
				Value:  raw,
				Reason: "non-numeric quantity",
			}
		}
		if qty < 0 {
			return nil, &core.MalformedInputError{
				Source: core.SourceInbound,
				Row:    i + 1,
				Column: header[qtyCol],
				Value:  raw,
				Reason: "negative returned quantity",
			}
		}
		rows = append(rows, core.InboundRow{TubeType: tube, Quantity: qty})
	}
	return rows, nil
}
