package core

import (
	"reflect"
	"testing"
)

func TestKitMapLookupNormalizes(t *testing.T) {
	m := DefaultKitMap()
	contents, ok := m.Lookup("  mnt kit only (2 acd) ")
	if !ok {
		t.Fatalf("normalized lookup should hit")
	}
	if contents["ACD"] != 2 {
		t.Fatalf("MNT kit should contain 2 ACD, got %+v", contents)
	}
	if _, ok := m.Lookup("Host Code"); ok {
		t.Fatalf("metadata column must not resolve to a kit")
	}
}

func TestExpandKits(t *testing.T) {
	m := DefaultKitMap()
	kits := []OutboundRow{
		{TubeType: "MNT & Telomere Kit (2 ACD, 1 Blue Sodium Citrate)", Quantity: 3},
		{TubeType: "MNT Kit Only (2 ACD)", Quantity: 2},
		{TubeType: "Tube - SST (7.5 mL) Tiger Top", Quantity: 4},
		{TubeType: "Organization Name", Quantity: 9}, // metadata, skipped
	}

	got := m.ExpandKits(kits)
	want := []OutboundRow{
		{TubeType: "acd", Quantity: 10}, // 3*2 + 2*2
		{TubeType: "blue", Quantity: 3},
		{TubeType: "sst", Quantity: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expanded = %+v, want %+v", got, want)
	}
}

func TestExpandKitsDeterministicOrder(t *testing.T) {
	m := DefaultKitMap()
	kits := []OutboundRow{{TubeType: "-SST MNT Kit Only (2 ACD)", Quantity: 1}}

	first := m.ExpandKits(kits)
	for i := 0; i < 25; i++ {
		if again := m.ExpandKits(kits); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}
