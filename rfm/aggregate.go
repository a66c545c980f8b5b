package rfm

// Record is one contact's RFM rollup row as read from the store.
type Record struct {
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	Segment        string  `json:"segment"`
	TotalSpent     float64 `json:"total_spent"`
}

// OverviewStats summarizes an organization's customer base.
type OverviewStats struct {
	TotalCustomers int     `json:"total_customers"`
	TotalRevenue   float64 `json:"total_revenue"`
	AvgLTV         float64 `json:"avg_ltv"`
	ChurnRate      float64 `json:"churn_rate"`
}

// SegmentStatsRow holds the aggregate for one segment.
type SegmentStatsRow struct {
	Segment      string  `json:"segment"`
	Label        string  `json:"label"`
	Color        string  `json:"color"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgLTV       float64 `json:"avg_ltv"`
}

// Overview computes total customers, total revenue, average lifetime value
// and churn rate over the full record list. Averages over an empty list are
// 0, never NaN.
func Overview(records []Record) OverviewStats {
	stats := OverviewStats{TotalCustomers: len(records)}

	churned := 0
	for _, r := range records {
		stats.TotalRevenue += r.TotalSpent
		if churnSegments[r.Segment] {
			churned++
		}
	}

	if stats.TotalCustomers > 0 {
		stats.AvgLTV = stats.TotalRevenue / float64(stats.TotalCustomers)
		stats.ChurnRate = 100 * float64(churned) / float64(stats.TotalCustomers)
	}

	return stats
}

// SegmentStats computes count, revenue and average LTV for each of the seven
// segments. All seven rows are always present, in display order, zero-valued
// when a segment has no members. Records carrying an unknown segment are not
// counted anywhere.
func SegmentStats(records []Record) []SegmentStatsRow {
	rows := make([]SegmentStatsRow, len(Segments))
	index := make(map[string]int, len(Segments))
	for i, s := range Segments {
		rows[i] = SegmentStatsRow{Segment: s.Key, Label: s.Label, Color: s.Color}
		index[s.Key] = i
	}

	for _, r := range records {
		i, ok := index[r.Segment]
		if !ok {
			continue
		}
		rows[i].Count++
		rows[i].TotalRevenue += r.TotalSpent
	}

	for i := range rows {
		if rows[i].Count > 0 {
			rows[i].AvgLTV = rows[i].TotalRevenue / float64(rows[i].Count)
		}
	}

	return rows
}

// Heatmap builds the 5x5 recency x frequency density matrix, indexed
// [recency-1][frequency-1]. Records with a score outside 1-5 on either axis
// are skipped; corrupt rollup rows must not crash aggregation.
func Heatmap(records []Record) [5][5]int {
	var matrix [5][5]int
	for _, r := range records {
		if r.RecencyScore < 1 || r.RecencyScore > 5 || r.FrequencyScore < 1 || r.FrequencyScore > 5 {
			continue
		}
		matrix[r.RecencyScore-1][r.FrequencyScore-1]++
	}
	return matrix
}
