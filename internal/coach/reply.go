package coach

import (
	"fmt"
	"strings"
)

// Reply is a parsed coach answer
type Reply struct {
	Correct  string `json:"correct"`
	Praise   string `json:"praise"`
	Question string `json:"question"`
	Raw      string `json:"-"`
}

// ParseReply reads the CORRECT:, PRAISE: and QUESTION: lines of a coach
// answer. Other lines are ignored; a repeated tag keeps its last value.
func ParseReply(raw string) Reply {
	r := Reply{Raw: raw}
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "CORRECT:"):
			r.Correct = strings.TrimSpace(strings.TrimPrefix(line, "CORRECT:"))
		case strings.HasPrefix(line, "PRAISE:"):
			r.Praise = strings.TrimSpace(strings.TrimPrefix(line, "PRAISE:"))
		case strings.HasPrefix(line, "QUESTION:"):
			r.Question = strings.TrimSpace(strings.TrimPrefix(line, "QUESTION:"))
		}
	}
	return r
}

// Spoken is the text read back to the learner
func (r Reply) Spoken() string {
	return fmt.Sprintf("%s. %s %s", r.Correct, r.Praise, r.Question)
}
