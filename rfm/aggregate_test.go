package rfm

import (
	"math"
	"reflect"
	"testing"
)

func TestOverview_Example(t *testing.T) {
	records := []Record{
		{RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, Segment: "champions", TotalSpent: 1000},
		{RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1, Segment: "lost", TotalSpent: 0},
	}

	got := Overview(records)
	want := OverviewStats{TotalCustomers: 2, TotalRevenue: 1000, AvgLTV: 500, ChurnRate: 50}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestOverview_Empty(t *testing.T) {
	got := Overview(nil)
	want := OverviewStats{}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if math.IsNaN(got.AvgLTV) || math.IsInf(got.AvgLTV, 0) {
		t.Fatal("AvgLTV must be 0 for empty input, not NaN/Inf")
	}
}

func TestOverview_ChurnCountsHibernating(t *testing.T) {
	records := []Record{
		{Segment: "hibernating", RecencyScore: 2, FrequencyScore: 1, MonetaryScore: 1},
		{Segment: "lost", RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1},
		{Segment: "loyal", RecencyScore: 4, FrequencyScore: 3, MonetaryScore: 3, TotalSpent: 300},
		{Segment: "champions", RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, TotalSpent: 700},
	}
	got := Overview(records)
	if got.ChurnRate != 50 {
		t.Fatalf("churn rate = %v, want 50", got.ChurnRate)
	}
}

func TestSegmentStats_AlwaysAllSeven(t *testing.T) {
	rows := SegmentStats(nil)
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want 7", len(rows))
	}
	for i, row := range rows {
		if row.Segment != Segments[i].Key {
			t.Fatalf("row %d: segment %q, want %q", i, row.Segment, Segments[i].Key)
		}
		if row.Count != 0 || row.TotalRevenue != 0 || row.AvgLTV != 0 {
			t.Fatalf("row %d not zero-valued for empty input: %+v", i, row)
		}
	}
}

func TestSegmentStats_CountsSumToTotal(t *testing.T) {
	records := []Record{
		{Segment: "champions", RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, TotalSpent: 1200},
		{Segment: "champions", RecencyScore: 4, FrequencyScore: 4, MonetaryScore: 4, TotalSpent: 800},
		{Segment: "loyal", RecencyScore: 3, FrequencyScore: 3, MonetaryScore: 3, TotalSpent: 400},
		{Segment: "lost", RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1, TotalSpent: 50},
		// Unknown stored segment must not be counted anywhere
		{Segment: "vip", RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, TotalSpent: 9999},
	}

	rows := SegmentStats(records)
	sum := 0
	for _, row := range rows {
		sum += row.Count
	}
	if sum != 4 {
		t.Fatalf("segment counts sum to %d, want 4 (unknown segment excluded)", sum)
	}

	champions := rows[0]
	if champions.Count != 2 || champions.TotalRevenue != 2000 || champions.AvgLTV != 1000 {
		t.Fatalf("champions row wrong: %+v", champions)
	}
}

func TestHeatmap_Example(t *testing.T) {
	records := []Record{
		{RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, Segment: "champions", TotalSpent: 1000},
		{RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1, Segment: "lost", TotalSpent: 0},
	}

	matrix := Heatmap(records)
	if matrix[4][4] != 1 {
		t.Fatalf("matrix[4][4] = %d, want 1", matrix[4][4])
	}
	if matrix[0][0] != 1 {
		t.Fatalf("matrix[0][0] = %d, want 1", matrix[0][0])
	}
	total := 0
	for _, row := range matrix {
		for _, cell := range row {
			total += cell
		}
	}
	if total != 2 {
		t.Fatalf("cell sum = %d, want 2", total)
	}
}

func TestHeatmap_SkipsOutOfRangeScores(t *testing.T) {
	records := []Record{
		{RecencyScore: 3, FrequencyScore: 3},
		{RecencyScore: 0, FrequencyScore: 3},
		{RecencyScore: 3, FrequencyScore: 6},
		{RecencyScore: -1, FrequencyScore: -1},
	}

	matrix := Heatmap(records)
	total := 0
	for _, row := range matrix {
		for _, cell := range row {
			total += cell
		}
	}
	if total != 1 {
		t.Fatalf("cell sum = %d, want 1 (corrupt rows excluded)", total)
	}
	if matrix[2][2] != 1 {
		t.Fatalf("matrix[2][2] = %d, want 1", matrix[2][2])
	}
}

func TestAggregation_Deterministic(t *testing.T) {
	records := []Record{
		{Segment: "champions", RecencyScore: 5, FrequencyScore: 4, MonetaryScore: 5, TotalSpent: 123.45},
		{Segment: "at_risk", RecencyScore: 2, FrequencyScore: 4, MonetaryScore: 3, TotalSpent: 67.89},
		{Segment: "hibernating", RecencyScore: 1, FrequencyScore: 2, MonetaryScore: 1, TotalSpent: 5},
	}

	if Overview(records) != Overview(records) {
		t.Fatal("Overview is not deterministic")
	}
	if !reflect.DeepEqual(SegmentStats(records), SegmentStats(records)) {
		t.Fatal("SegmentStats is not deterministic")
	}
	if Heatmap(records) != Heatmap(records) {
		t.Fatal("Heatmap is not deterministic")
	}
}
