package orchestrator

import (
	"math"
	"strings"
)

// CalculateMetrics derives the session summary. Pause durations are
// already rounded to 2 decimals at detection; the total sums those and
// is displayed at 1 decimal. Fluency penalizes pause time (x5) and
// pause frequency (x10) and is forced to 0 on an empty transcript so
// a silent recording cannot score 100.
func CalculateMetrics(transcript string, pauses []Pause, promptsGenerated int) SessionMetrics {
	wordCount := len(strings.Fields(transcript))

	total := 0.0
	for _, p := range pauses {
		total += p.Duration
	}

	fluency := 0
	if wordCount > 0 {
		f := 100 - total*5 - float64(len(pauses))*10
		if f < 0 {
			f = 0
		}
		fluency = int(math.Round(f))
	}

	return SessionMetrics{
		WordCount:         wordCount,
		PauseCount:        len(pauses),
		TotalPauseSeconds: round1(total),
		PromptsGenerated:  promptsGenerated,
		FluencyScore:      fluency,
	}
}
