package orchestrator

import (
	"math"
	"strings"
)

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// DetectPauses scans adjacent units and returns one Pause per pair
// whose gap meets threshold, in input order. Fewer than two units
// yields no pauses; overlapping units (negative gap) never qualify.
func DetectPauses(units []Word, threshold, window float64) []Pause {
	pauses := []Pause{}
	for i := 1; i < len(units); i++ {
		gap := units[i].Start - units[i-1].End
		if gap < threshold {
			continue
		}
		pauses = append(pauses, Pause{
			Start:         round2(units[i-1].End),
			End:           round2(units[i].Start),
			Duration:      round2(gap),
			WordBefore:    units[i-1].Text,
			WordAfter:     units[i].Text,
			ContextBefore: ContextBefore(units, i, window),
		})
	}
	return pauses
}

// ContextBefore joins the text of every unit preceding index i whose
// start falls within the trailing window before units[i]. Index 0 has
// nothing before it and returns "".
func ContextBefore(units []Word, i int, window float64) string {
	if i <= 0 || i >= len(units) {
		return ""
	}
	cutoff := units[i].Start - window
	var parts []string
	for _, u := range units[:i] {
		if u.Start >= cutoff {
			parts = append(parts, strings.TrimSpace(u.Text))
		}
	}
	return strings.Join(parts, " ")
}
