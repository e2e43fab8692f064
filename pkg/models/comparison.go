package models

// TokenStatus is the judgment for one reference token
type TokenStatus string

const (
	StatusCorrect   TokenStatus = "correct"
	StatusIncorrect TokenStatus = "incorrect"
	StatusMissing   TokenStatus = "missing"
)

// TokenJudgment is one entry of a word or letter comparison
type TokenJudgment struct {
	Token  string      `json:"token"`            // Reference word or letter
	Status TokenStatus `json:"status"`
	Actual string      `json:"actual,omitempty"` // What the learner produced, for incorrect tokens
	// SoundsAlike marks an incorrect word that is phonetically close to the reference
	SoundsAlike bool `json:"sounds_alike,omitempty"`
}
