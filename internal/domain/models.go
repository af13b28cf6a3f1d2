package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Question models a multiple choice question with exactly one correct option.
type Question struct {
	ID           int      `json:"id" yaml:"id"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correct_index"`
}

// Validate checks the option count and the correct index range.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %d has %d options", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

// Bank is the fixed, ordered set of questions an attempt samples from.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Validate rejects invalid questions and duplicate question IDs.
func (b Bank) Validate() error {
	seen := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("%w: id %d in bank %q", ErrDuplicateQuestion, q.ID, b.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// Answer is one answer slot. The zero value is unanswered.
type Answer struct {
	index    int
	answered bool
}

// Chosen returns an answer slot holding option index i.
func Chosen(i int) Answer {
	return Answer{index: i, answered: true}
}

// Index returns the chosen option and whether the slot is answered.
func (a Answer) Index() (int, bool) {
	return a.index, a.answered
}

func (a Answer) IsAnswered() bool { return a.answered }

// Matches reports whether the slot holds the given option index.
func (a Answer) Matches(i int) bool {
	return a.answered && a.index == i
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.answered {
		return []byte("null"), nil
	}
	return json.Marshal(a.index)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Answer{}
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	*a = Chosen(i)
	return nil
}

// Phase is the lifecycle stage of an attempt.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Cue is a fire-and-forget notification for the presentation layer.
type Cue string

const (
	CueSessionBegin   Cue = "session-begin"
	CueOptionSelected Cue = "option-selected"
	CueResultSuccess  Cue = "result-success"
	CueResultRetry    Cue = "result-retry"
	CueReset          Cue = "reset"
)

// HistoryRecord is the persisted summary of one completed attempt.
type HistoryRecord struct {
	ID             string    `json:"id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Result is the scored outcome of a submitted attempt.
type Result struct {
	Score      int           `json:"score"`
	Total      int           `json:"total"`
	Percentage int           `json:"percentage"`
	Passed     bool          `json:"passed"`
	Success    bool          `json:"success"`
	Record     HistoryRecord `json:"record"`
}

// Percentage returns round(100 * score / total), or 0 for an empty attempt.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// Snapshot is a read-only view of an attempt.
type Snapshot struct {
	Phase        Phase      `json:"phase"`
	Position     int        `json:"position"`
	Questions    []Question `json:"questions"`
	Answers      []Answer   `json:"answers"`
	Answered     int        `json:"answered"`
	AudioEnabled bool       `json:"audioEnabled"`
	Result       *Result    `json:"result,omitempty"`
}

// Current returns the question at the current position.
func (s Snapshot) Current() (Question, bool) {
	if s.Position < 0 || s.Position >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Position], true
}
