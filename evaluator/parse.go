package evaluator

import (
	"encoding/json"
	"regexp"
)

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Parse extracts the score payload from model text. A payload that
// cannot be located or decoded yields the neutral default verdict with
// a diagnostic placeholder, never an error.
func Parse(text string) Verdict {
	match := jsonObjectRe.FindString(text)
	if match == "" {
		return Verdict{Score: neutral("(no-parse)"), Raw: text}
	}

	var payload struct {
		Helpfulness  *float64 `json:"helpfulness"`
		Faithfulness *float64 `json:"faithfulness"`
		Style        *float64 `json:"style"`
		Feedback     string   `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(match), &payload); err != nil {
		return Verdict{Score: neutral("(bad-json)"), Raw: text}
	}

	return Verdict{
		Score: Score{
			Helpfulness:  axis(payload.Helpfulness),
			Faithfulness: axis(payload.Faithfulness),
			Style:        axis(payload.Style),
			Feedback:     payload.Feedback,
		},
		Parsed: true,
	}
}

// axis defaults a missing score to the neutral middle and clamps the
// rest into [1,5].
func axis(v *float64) int {
	if v == nil {
		return 3
	}
	return clamp(*v)
}

func neutral(diagnostic string) Score {
	return Score{Helpfulness: 3, Faithfulness: 3, Style: 3, Feedback: diagnostic}
}

func clamp(v float64) int {
	n := int(v)
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}
