package core

import "sort"

// KitContents maps a kit column header from the outbound report to the
// tube quantities packed into one kit of that type.
type KitContents map[string]int64

// KitMap resolves outbound kit descriptions to tube contents. Lookup is
// done on the normalized header, so formatting drift in the source
// report headers does not break the expansion.
type KitMap map[string]KitContents

// DefaultKitMap covers the kit catalog shipped in the outbound reports.
// Header names must match the report columns after normalization; the
// trailing entries cover truncated headers observed in real exports.
func DefaultKitMap() KitMap {
	raw := map[string]KitContents{
		"MNT & Telomere Kit (2 ACD, 1 Blue Sodium Citrate)": {"ACD": 2, "Blue": 1},
		"MNT & Telomere Kit (2 ACD 1 Blue Sodium Citrate)":  {"ACD": 2, "Blue": 1},
		"MNT Kit Only (2 ACD)":                              {"ACD": 2},
		"MTHFR Kit (1 Blue Sodium Citrate)":                 {"Blue": 1},
		"Telomere Kit (1 Blue Sodium Citrate)":              {"Blue": 1},
		"Tube - ACD (8.5 mL) Yellow Tops":                   {"ACD": 1},
		"Tube - Lt. Blue (3mL) Telo/MTHFR-Sodium Citrate":   {"Blue": 1},
		"Tube - SST (7.5 mL) Tiger Top":                     {"SST": 1},
		"MNT & Tel. 1 Blue Sor":                             {"ACD": 2, "Blue": 1},
		"MNT Kit O":                                         {"ACD": 2},
		"Tube - ACD Tube":                                   {"ACD": 1},
		"Tube - Lt. LTtube":                                 {"Blue": 1},
		"-SST MNT Kit Only (2 ACD)":                         {"SST": 1, "ACD": 2},
	}
	m := make(KitMap, len(raw))
	for name, contents := range raw {
		m[NormalizeTubeType(name)] = contents
	}
	return m
}

// Lookup returns the tube contents for a kit header, normalizing first.
func (m KitMap) Lookup(header string) (KitContents, bool) {
	c, ok := m[NormalizeTubeType(header)]
	return c, ok
}

// ExpandKits converts per-kit counts into per-tube outbound rows. Kit
// descriptions not present in the map are ignored; callers treat those
// columns as order metadata, not kit data. Tube ordering follows the
// first appearance of each tube type across the input.
func (m KitMap) ExpandKits(kits []OutboundRow) []OutboundRow {
	totals := make(map[string]int64)
	var order []string

	for _, kit := range kits {
		contents, ok := m.Lookup(kit.TubeType)
		if !ok {
			continue
		}
		// Sorted iteration keeps the expansion deterministic.
		tubes := make([]string, 0, len(contents))
		for tube := range contents {
			tubes = append(tubes, tube)
		}
		sort.Strings(tubes)
		for _, tube := range tubes {
			key := NormalizeTubeType(tube)
			if _, seen := totals[key]; !seen {
				order = append(order, key)
			}
			totals[key] += kit.Quantity * contents[tube]
		}
	}

	out := make([]OutboundRow, 0, len(order))
	for _, tube := range order {
		out = append(out, OutboundRow{TubeType: tube, Quantity: totals[tube]})
	}
	return out
}
