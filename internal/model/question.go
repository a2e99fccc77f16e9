package model

// Difficulty is a question difficulty level
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// Question is a single multiple-choice question. Options always contains
// the correct answer, and its order is the display order for the round.
type Question struct {
	Prompt        string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      string     `json:"category"`
}

// HasOption reports whether s is one of the question's answer options
func (q *Question) HasOption(s string) bool {
	for _, opt := range q.Options {
		if opt == s {
			return true
		}
	}
	return false
}

// IsCorrect reports whether s matches the correct answer exactly
func (q *Question) IsCorrect(s string) bool {
	return s == q.CorrectAnswer
}
