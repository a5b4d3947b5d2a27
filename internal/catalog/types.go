package catalog

import "errors"

// QuestionRecord pairs a short video with one multiple-choice question.
// Immutable once loaded; CorrectIndex is always a valid index into Options.
type QuestionRecord struct {
	ID           string   `json:"id"`
	VideoURL     string   `json:"video_url"`
	Title        string   `json:"title"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

var (
	// ErrEmptyCatalog is returned when no playable records remain after
	// filtering. Callers surface it as a load failure.
	ErrEmptyCatalog = errors.New("no quiz questions available")
)

// Valid reports whether a record is playable: a prompt, at least two
// options, and an in-range correct index.
func (q QuestionRecord) Valid() bool {
	return q.Prompt != "" &&
		len(q.Options) >= 2 &&
		q.CorrectIndex >= 0 &&
		q.CorrectIndex < len(q.Options)
}
