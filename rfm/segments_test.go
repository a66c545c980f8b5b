package rfm

import (
	"errors"
	"strings"
	"testing"
)

func TestLookupSegment_Known(t *testing.T) {
	def, err := LookupSegment("champions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Label != "Champions" {
		t.Fatalf("got label %q, want %q", def.Label, "Champions")
	}
}

func TestLookupSegment_Unknown(t *testing.T) {
	_, err := LookupSegment("vip")
	if err == nil {
		t.Fatal("expected error for unknown segment, got nil")
	}
	var unknownErr *UnknownSegmentError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownSegmentError, got %T", err)
	}
	// The error must enumerate the valid set
	for _, key := range SegmentKeys() {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not mention valid key %q", err.Error(), key)
		}
	}
}

func TestSegmentKeys_DisplayOrder(t *testing.T) {
	want := []string{"champions", "loyal", "potential", "new_customers", "at_risk", "hibernating", "lost"}
	got := SegmentKeys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClassify_KnownPoints(t *testing.T) {
	cases := []struct {
		r, f, m int
		want    string
	}{
		{5, 5, 5, "champions"},
		{4, 4, 2, "champions"},
		{3, 4, 3, "loyal"},
		{5, 3, 1, "loyal"},
		{5, 1, 3, "new_customers"},
		{4, 2, 2, "potential"},
		{3, 1, 1, "potential"},
		{2, 5, 5, "at_risk"},
		{1, 3, 2, "at_risk"},
		{2, 1, 1, "hibernating"},
		{1, 2, 3, "hibernating"},
		{1, 1, 1, "lost"},
		{1, 1, 5, "lost"},
	}
	for _, tc := range cases {
		got, err := Classify(tc.r, tc.f, tc.m)
		if err != nil {
			t.Fatalf("Classify(%d,%d,%d): unexpected error: %v", tc.r, tc.f, tc.m, err)
		}
		if got != tc.want {
			t.Fatalf("Classify(%d,%d,%d) = %q, want %q", tc.r, tc.f, tc.m, got, tc.want)
		}
	}
}

func TestClassify_TotalOverGrid(t *testing.T) {
	// Every valid score triple must classify into one of the seven segments.
	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			for m := 1; m <= 5; m++ {
				key, err := Classify(r, f, m)
				if err != nil {
					t.Fatalf("Classify(%d,%d,%d): %v", r, f, m, err)
				}
				if !IsValidSegment(key) {
					t.Fatalf("Classify(%d,%d,%d) returned unknown segment %q", r, f, m, key)
				}
			}
		}
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	invalid := [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {6, 5, 5}, {5, 6, 5}, {5, 5, 6}}
	for _, s := range invalid {
		if _, err := Classify(s[0], s[1], s[2]); err == nil {
			t.Fatalf("Classify(%d,%d,%d): expected error, got nil", s[0], s[1], s[2])
		}
	}
}

func TestClassify_AgreesWithBounds(t *testing.T) {
	// A classified triple must fall inside the bounds of its own definition.
	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			key, err := Classify(r, f, 3)
			if err != nil {
				t.Fatalf("Classify(%d,%d,3): %v", r, f, err)
			}
			def, err := LookupSegment(key)
			if err != nil {
				t.Fatalf("LookupSegment(%q): %v", key, err)
			}
			if r < def.MinR || r > def.MaxR || f < def.MinF || f > def.MaxF {
				t.Fatalf("Classify(%d,%d,3) = %q but scores are outside its bounds %+v", r, f, key, def)
			}
		}
	}
}
