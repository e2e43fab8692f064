package models

// StageOutcome is the graded result of a single attempt
type StageOutcome struct {
	Ratio       float64 `json:"ratio"` // Similarity in [0,1]
	Stars       int     `json:"stars"` // 0-3
	Exact       bool    `json:"exact"` // Spelling only: exact match after trimming
	Committable bool    `json:"committable"`
}
