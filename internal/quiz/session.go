// Package quiz implements the prefecture quiz state machine.
//
// A Session moves from in progress to finished by index (index >= total means
// finished). The "start" state is the absence of a session: callers drop the
// session to reset and build a new one with New to start again.
package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

// DefaultQuestionCount is the number of questions per session when not configured.
const DefaultQuestionCount = 10

const (
	capitalZoom = 12
	regionZoom  = 7
)

// Question is the read-only view of the current question.
type Question struct {
	Number     int                 // 1-based position
	Total      int                 // questions in the session
	Mode       entities.QuizMode   // session mode
	Prefecture entities.Prefecture // the entry being asked about
	Prompt     string              // value shown to the user
	Options    []string            // four choices, nil for text input
	View       entities.MapView    // map data for the question
}

// Session holds the state of one quiz run. It is not safe for concurrent use.
type Session struct {
	mode      entities.QuizMode
	questions []entities.Prefecture
	options   [][]string
	answers   []*entities.AnswerRecord
	index     int
	score     int
	revealed  bool
	startedAt time.Time
}

// New samples n distinct prefectures from table and precomputes the options
// for multiple choice modes. All randomness comes from rng.
func New(table []entities.Prefecture, mode entities.QuizMode, n int, rng *rand.Rand) (*Session, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if n < 1 || n > len(table) {
		return nil, fmt.Errorf("%w: %d (table has %d entries)", ErrInvalidQuestionCount, n, len(table))
	}

	questions := make([]entities.Prefecture, 0, n)
	for _, i := range rng.Perm(len(table))[:n] {
		questions = append(questions, table[i])
	}

	var options [][]string
	if mode.MultipleChoice() {
		gen := NewOptionGenerator(table, rng)
		options = make([][]string, 0, n)
		for _, q := range questions {
			opts, err := gen.GenerateOptions(q, mode)
			if err != nil {
				return nil, fmt.Errorf("options for %s: %w", q.Name, err)
			}
			options = append(options, opts)
		}
	}

	return &Session{
		mode:      mode,
		questions: questions,
		options:   options,
		answers:   make([]*entities.AnswerRecord, n),
		startedAt: time.Now(),
	}, nil
}

func (s *Session) Mode() entities.QuizMode { return s.mode }
func (s *Session) Index() int              { return s.index }
func (s *Session) Score() int              { return s.score }
func (s *Session) Total() int              { return len(s.questions) }
func (s *Session) Revealed() bool          { return s.revealed }
func (s *Session) StartedAt() time.Time    { return s.startedAt }

// Finished reports whether every question has been passed.
func (s *Session) Finished() bool {
	return s.index >= len(s.questions)
}

// Current returns the question at the current index.
func (s *Session) Current() (Question, error) {
	if s.Finished() {
		return Question{}, fmt.Errorf("%w: quiz is finished", ErrInvalidTransition)
	}

	p := s.questions[s.index]
	q := Question{
		Number:     s.index + 1,
		Total:      len(s.questions),
		Mode:       s.mode,
		Prefecture: p,
		View:       viewFor(p, s.mode),
	}

	switch s.mode {
	case entities.ModeCapitalChoice:
		q.Prompt = p.Name
	default:
		q.Prompt = p.Capital
	}

	if s.options != nil {
		q.Options = append([]string(nil), s.options[s.index]...)
	}

	return q, nil
}

// Answer returns the record of the current question once it has been revealed.
func (s *Session) Answer() (*entities.AnswerRecord, bool) {
	if s.Finished() || s.answers[s.index] == nil {
		return nil, false
	}
	rec := *s.answers[s.index]
	return &rec, true
}

// Submit grades input against the current question. It is accepted once per
// question: after the answer is revealed every further submit is rejected
// and leaves the score untouched.
func (s *Session) Submit(input string) (entities.AnswerRecord, error) {
	if err := s.canAnswer(); err != nil {
		return entities.AnswerRecord{}, err
	}

	p := s.questions[s.index]
	correct := expectedAnswer(p, s.mode)
	rec := newRecord(p, input, correct, grade(s.mode, input, correct))

	s.answers[s.index] = &rec
	if rec.IsCorrect {
		s.score++
	}
	s.revealed = true

	return rec, nil
}

// GiveUp reveals the expected answer without scoring; the question counts as wrong.
func (s *Session) GiveUp() (entities.AnswerRecord, error) {
	if err := s.canAnswer(); err != nil {
		return entities.AnswerRecord{}, err
	}

	p := s.questions[s.index]
	rec := newRecord(p, "", expectedAnswer(p, s.mode), false)

	s.answers[s.index] = &rec
	s.revealed = true

	return rec, nil
}

// Next moves past a revealed question. When the last question is passed the
// session is finished.
func (s *Session) Next() error {
	if s.Finished() {
		return fmt.Errorf("%w: quiz is finished", ErrInvalidTransition)
	}
	if !s.revealed {
		return fmt.Errorf("%w: answer not revealed yet", ErrInvalidTransition)
	}

	s.index++
	s.revealed = false
	return nil
}

func (s *Session) canAnswer() error {
	if s.Finished() {
		return fmt.Errorf("%w: quiz is finished", ErrInvalidTransition)
	}
	if s.revealed {
		return fmt.Errorf("%w: question %d already answered", ErrInvalidTransition, s.index+1)
	}
	return nil
}

// grade applies the mode specific comparison.
func grade(mode entities.QuizMode, input, correct string) bool {
	if mode == entities.ModeTextInput {
		user := NormalizeName(input)
		return user != "" && user == NormalizeName(correct)
	}
	return input == correct
}

func newRecord(p entities.Prefecture, input, correct string, ok bool) entities.AnswerRecord {
	return entities.AnswerRecord{
		UserAnswer:    input,
		CorrectAnswer: correct,
		IsCorrect:     ok,
		Prefecture:    p.Name,
		Capital:       p.Capital,
		Lat:           p.Lat,
		Lon:           p.Lon,
	}
}

func viewFor(p entities.Prefecture, mode entities.QuizMode) entities.MapView {
	if mode == entities.ModeCapitalChoice {
		return entities.MapView{Lat: p.Lat, Lon: p.Lon, Zoom: regionZoom, Label: p.Name}
	}
	return entities.MapView{
		Lat:   p.Lat,
		Lon:   p.Lon,
		Zoom:  capitalZoom,
		Label: p.Capital,
		Point: &[2]float64{p.Lon, p.Lat},
	}
}
