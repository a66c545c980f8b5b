// Package rfm classifies customers by Recency/Frequency/Monetary scores and
// aggregates the per-contact rollup rows into overview stats, per-segment
// stats and the recency x frequency heatmap. Everything in this package is a
// pure function of its input.
package rfm

import (
	"fmt"
	"strings"
)

// SegmentDefinition describes one of the seven customer-value buckets.
// Min/Max bounds are inclusive per axis.
type SegmentDefinition struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	MinR        int    `json:"min_r"`
	MaxR        int    `json:"max_r"`
	MinF        int    `json:"min_f"`
	MaxF        int    `json:"max_f"`
	MinM        int    `json:"min_m"`
	MaxM        int    `json:"max_m"`
}

// Segments is the fixed set of seven segments in canonical display order.
var Segments = []SegmentDefinition{
	{
		Key:         "champions",
		Label:       "Champions",
		Description: "Bought recently, buy often and spend the most",
		Color:       "#16A34A",
		MinR:        4, MaxR: 5, MinF: 4, MaxF: 5, MinM: 1, MaxM: 5,
	},
	{
		Key:         "loyal",
		Label:       "Loyal",
		Description: "Buy regularly and respond well to promotions",
		Color:       "#2563EB",
		MinR:        3, MaxR: 5, MinF: 3, MaxF: 5, MinM: 1, MaxM: 5,
	},
	{
		Key:         "potential",
		Label:       "Potential Loyalist",
		Description: "Recent customers with average frequency",
		Color:       "#0891B2",
		MinR:        3, MaxR: 5, MinF: 1, MaxF: 3, MinM: 1, MaxM: 5,
	},
	{
		Key:         "new_customers",
		Label:       "New Customers",
		Description: "Bought very recently for the first time",
		Color:       "#9333EA",
		MinR:        4, MaxR: 5, MinF: 1, MaxF: 1, MinM: 1, MaxM: 5,
	},
	{
		Key:         "at_risk",
		Label:       "At Risk",
		Description: "Used to buy often but have not purchased in a while",
		Color:       "#EA580C",
		MinR:        1, MaxR: 2, MinF: 3, MaxF: 5, MinM: 1, MaxM: 5,
	},
	{
		Key:         "hibernating",
		Label:       "Hibernating",
		Description: "Low recency and low frequency, about to be lost",
		Color:       "#CA8A04",
		MinR:        1, MaxR: 2, MinF: 1, MaxF: 2, MinM: 1, MaxM: 5,
	},
	{
		Key:         "lost",
		Label:       "Lost",
		Description: "Lowest recency and frequency, likely churned",
		Color:       "#DC2626",
		MinR:        1, MaxR: 1, MinF: 1, MaxF: 1, MinM: 1, MaxM: 5,
	},
}

// churnSegments contribute to the churn rate in Overview.
var churnSegments = map[string]bool{
	"lost":        true,
	"hibernating": true,
}

// classifyOrder is the priority in which segment rules are matched. It differs
// from display order so that narrow rules (new_customers, lost) win over the
// broader ones overlapping them. The union of the rules covers every valid
// score pair, so Classify is total over scores in range.
var classifyOrder = []string{
	"champions",
	"loyal",
	"new_customers",
	"potential",
	"at_risk",
	"lost",
	"hibernating",
}

// UnknownSegmentError reports a segment key outside the fixed set of seven.
type UnknownSegmentError struct {
	Key string
}

func (e *UnknownSegmentError) Error() string {
	return fmt.Sprintf("unknown segment %q, valid segments: %s", e.Key, strings.Join(SegmentKeys(), ", "))
}

// SegmentKeys returns the seven valid keys in display order.
func SegmentKeys() []string {
	keys := make([]string, len(Segments))
	for i, s := range Segments {
		keys[i] = s.Key
	}
	return keys
}

// LookupSegment resolves a segment key to its definition. Unknown keys are an
// error, never defaulted.
func LookupSegment(key string) (SegmentDefinition, error) {
	for _, s := range Segments {
		if s.Key == key {
			return s, nil
		}
	}
	return SegmentDefinition{}, &UnknownSegmentError{Key: key}
}

// IsValidSegment reports whether key is one of the seven known segments.
func IsValidSegment(key string) bool {
	_, err := LookupSegment(key)
	return err == nil
}

// Classify maps a score triple to its segment key. It is the single source of
// truth for segment membership: the stored segment column must agree with it.
func Classify(recency, frequency, monetary int) (string, error) {
	if recency < 1 || recency > 5 || frequency < 1 || frequency > 5 || monetary < 1 || monetary > 5 {
		return "", fmt.Errorf("rfm scores must be in [1,5], got r=%d f=%d m=%d", recency, frequency, monetary)
	}

	for _, key := range classifyOrder {
		def, _ := LookupSegment(key)
		if recency >= def.MinR && recency <= def.MaxR &&
			frequency >= def.MinF && frequency <= def.MaxF &&
			monetary >= def.MinM && monetary <= def.MaxM {
			return key, nil
		}
	}

	// Unreachable: the rule set covers the full 5x5x5 grid.
	return "", fmt.Errorf("no segment rule matched r=%d f=%d m=%d", recency, frequency, monetary)
}
