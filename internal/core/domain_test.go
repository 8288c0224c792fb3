package core

import (
	"strings"
	"testing"
)

func TestNormalizeTubeType(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Red", "red"},
		{" Purple Top ", "purple top"},
		{"purple   top", "purple top"},
		{"\tACD\n", "acd"},
		{"   ", ""},
	}
	for i, tc := range cases {
		if got := NormalizeTubeType(tc.in); got != tc.want {
			t.Fatalf("case %d: NormalizeTubeType(%q) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestRowValidate(t *testing.T) {
	if err := (OutboundRow{TubeType: "Red", Quantity: 0}).Validate(); err != nil {
		t.Fatalf("zero quantity is valid, got %v", err)
	}
	if err := (OutboundRow{TubeType: "Red", Quantity: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative sent")
	}
	if err := (InboundRow{TubeType: "", Quantity: 1}).Validate(); err == nil {
		t.Fatalf("expected error for empty tube type")
	}
}

func TestMalformedInputErrorMessage(t *testing.T) {
	e := &MalformedInputError{Source: SourceInbound, Row: 3, Column: "Num", Value: "abc", Reason: "non-numeric quantity"}
	msg := e.Error()
	for _, want := range []string{"inbound", "row 3", "Num", "abc"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q should mention %q", msg, want)
		}
	}

	hdr := &MalformedInputError{Source: SourceOutbound, Column: "quantity", Reason: "missing quantity column"}
	if !strings.Contains(hdr.Error(), "outbound") {
		t.Fatalf("header error %q should name the file", hdr.Error())
	}
}
