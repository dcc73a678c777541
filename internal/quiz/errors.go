package quiz

import "errors"

var (
	// ErrInvalidTransition is returned for an action the current state does not
	// accept, e.g. a second submit for the same question. It usually comes from
	// a stale or duplicated UI event.
	ErrInvalidTransition    = errors.New("invalid quiz transition")
	ErrInvalidQuestionCount = errors.New("invalid question count")
	ErrUnknownMode          = errors.New("unknown quiz mode")
	ErrNotEnoughCandidates  = errors.New("not enough distinct candidates for options")
)
