package analytics

import (
	"encoding/json"
	"sort"
)

// UnknownLabel stands in for events recorded without an event type.
const UnknownLabel = "unknown"

// EmptyMostCommon is the dashboard's defined empty state.
const EmptyMostCommon = "N/A"

type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	TS      int64           `json:"ts,omitempty"`
}

type Summary struct {
	Total       int            `json:"total"`
	UniqueTypes int            `json:"uniqueTypes"`
	MostCommon  string         `json:"mostCommon"`
	Counts      map[string]int `json:"counts"`
}

// Summarize computes the dashboard numbers. Events without a type count under
// UnknownLabel. MostCommon is the label with the highest frequency; equal
// frequencies resolve to the lexicographically smallest label. An empty input
// is the defined empty state (zeros, "N/A"), not an error.
func Summarize(events []Event) Summary {
	counts := make(map[string]int, len(events))
	for _, e := range events {
		label := e.Event
		if label == "" {
			label = UnknownLabel
		}
		counts[label]++
	}

	s := Summary{
		Total:       len(events),
		UniqueTypes: len(counts),
		MostCommon:  EmptyMostCommon,
		Counts:      counts,
	}
	if len(counts) == 0 {
		return s
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	s.MostCommon = labels[0]
	return s
}
