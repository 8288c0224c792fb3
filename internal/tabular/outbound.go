package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"tuberecon/internal/core"
)

// ParseOutbound reads a kits-sent CSV in either of the two accepted
// shapes:
//
//   - a plain tube/quantity file: header on the first row with a
//     tube-type column and a quantity column;
//   - the kit export: a title row, then a header row whose kit-name
//     columns expand to tube quantities through the kit map. Columns
//     that are not kits (order id, location, sales rep) are ignored.
//
// Row numbers in errors are 1-based data rows of the uploaded file.
func ParseOutbound(r io.Reader, kits core.KitMap) ([]core.OutboundRow, error) {
	records, err := readAll(r, core.SourceOutbound)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &core.EmptyInputError{Source: core.SourceOutbound}
	}

	if rows, ok, err := parseSimpleOutbound(records); ok || err != nil {
		return rows, err
	}
	return parseKitOutbound(records, kits)
}

func parseSimpleOutbound(records [][]string) ([]core.OutboundRow, bool, error) {
	header := records[0]
	tubeCol := findColumn(header, tubeTypeAliases)
	qtyCol := findColumn(header, sentAliases)
	if tubeCol < 0 || qtyCol < 0 {
		return nil, false, nil
	}

	var rows []core.OutboundRow
	for i, record := range records[1:] {
		tube := cell(record, tubeCol)
		raw := cell(record, qtyCol)
		if core.NormalizeTubeType(tube) == "" && raw == "" {
			continue // fully blank line
		}
		qty, ok := parseQuantity(raw)
		if !ok {
			return nil, true, &core.MalformedInputError{
				Source: core.SourceOutbound,
				Row:    i + 1,
				Column: header[qtyCol],
				Value:  raw,
				Reason: "non-numeric quantity",
			}
		}
		if qty < 0 {
			return nil, true, &core.MalformedInputError{
				Source: core.SourceOutbound,
				Row:    i + 1,
				Column: header[qtyCol],
				Value:  raw,
				Reason: "negative sent quantity",
			}
		}
		rows = append(rows, core.OutboundRow{TubeType: tube, Quantity: qty})
	}
	return rows, true, nil
}

// parseKitOutbound handles the raw kit export, whose header sits on the
// second row below a title line.
func parseKitOutbound(records [][]string, kits core.KitMap) ([]core.OutboundRow, error) {
	headerIdx := -1
	for i := 0; i < len(records) && i < 2; i++ {
		if kitColumns(records[i], kits) != nil {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &core.MalformedInputError{
			Source: core.SourceOutbound,
			Column: "tube_type/quantity",
			Reason: "no tube-type and quantity columns, and no known kit columns",
		}
	}

	header := records[headerIdx]
	cols := kitColumns(header, kits)

	var kitCounts []core.OutboundRow
	for i, record := range records[headerIdx+1:] {
		for _, col := range cols {
			raw := cell(record, col)
			qty, ok := parseQuantity(raw)
			if !ok {
				return nil, &core.MalformedInputError{
					Source: core.SourceOutbound,
					Row:    i + 1,
					Column: header[col],
					Value:  raw,
					Reason: "non-numeric kit count",
				}
			}
			if qty < 0 {
				return nil, &core.MalformedInputError{
					Source: core.SourceOutbound,
					Row:    i + 1,
					Column: header[col],
					Value:  raw,
					Reason: "negative kit count",
				}
			}
			if qty == 0 {
				continue
			}
			kitCounts = append(kitCounts, core.OutboundRow{TubeType: header[col], Quantity: qty})
		}
	}

	return kits.ExpandKits(kitCounts), nil
}

// kitColumns returns indexes of header cells that resolve in the kit
// map, or nil when the row holds no kit columns at all.
func kitColumns(header []string, kits core.KitMap) []int {
	var cols []int
	for i, h := range header {
		if _, ok := kits.Lookup(h); ok {
			cols = append(cols, i)
		}
	}
	return cols
}

func readAll(r io.Reader, src core.Source) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // the raw exports have ragged rows
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s csv: %w", src, err)
	}
	return records, nil
}
