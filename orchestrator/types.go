package orchestrator

// Word is a timed unit of speech. Depending on the transcription
// provider it is a single word or a short segment.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"` // sec
	End   float64 `json:"end"`   // sec
}

// Pause is a gap between two consecutive units that met the
// threshold. Start, End and Duration are rounded to 2 decimals at
// creation; AIPrompt is attached once by the pipeline.
type Pause struct {
	Start         float64 `json:"pause_start"`
	End           float64 `json:"pause_end"`
	Duration      float64 `json:"duration"`
	WordBefore    string  `json:"word_before"`
	WordAfter     string  `json:"word_after"`
	ContextBefore string  `json:"context_before"`
	AIPrompt      string  `json:"ai_prompt"`
}

// SessionMetrics summarizes one recording.
type SessionMetrics struct {
	WordCount         int     `json:"word_count"`
	PauseCount        int     `json:"pause_count"`
	TotalPauseSeconds float64 `json:"total_pause_seconds"`
	PromptsGenerated  int     `json:"prompts_generated"`
	FluencyScore      int     `json:"fluency_score"`
}

// Result is the full analysis response for one recording.
type Result struct {
	Success        bool           `json:"success"`
	Transcript     string         `json:"transcript"`
	Words          []Word         `json:"words"`
	Pauses         []Pause        `json:"pauses"`
	Metrics        SessionMetrics `json:"metrics"`
	ProcessingTime float64        `json:"processing_time_seconds"`
}
