package report

import "time"

// ReportContext carries the quiz attempt facts a generated report is built from.
type ReportContext struct {
	StudentName      string            `json:"student_name"`
	StudentEmail     string            `json:"student_email"`
	QuizTitle        string            `json:"quiz_title"`
	Score            float64           `json:"score"`
	MaxScore         float64           `json:"max_score"`
	CorrectAnswers   int               `json:"correct_answers"`
	TotalQuestions   int               `json:"total_questions"`
	TimeTakenSeconds int               `json:"time_taken_seconds"`
	CompletedAt      time.Time         `json:"completed_at"`
	Extra            map[string]string `json:"extra,omitempty"` // Additional variables, never override built-ins
}

// Percentage returns the score as a 0-100 value, or 0 when MaxScore is unset.
func (c ReportContext) Percentage() float64 {
	if c.MaxScore <= 0 {
		return 0
	}
	return c.Score / c.MaxScore * 100
}

// VariableDefinition describes one placeholder available to template authors.
type VariableDefinition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Example     string `json:"example" yaml:"example"`
}
