// Package study implements the "where is X?" drill over a region dataset.
//
// Every Answer advances to the next target whether it was right or not.
// Targets answered wrong are collected once each so they can be reviewed.
package study

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrEmptyPool     = errors.New("no targets in region")
	ErrFinished      = errors.New("drill is finished")
	ErrNoAlternative = errors.New("no other target to change to")
)

// Outcome is the graded result of one Answer.
type Outcome struct {
	Target   string
	Selected string
	Correct  bool
}

// Progress is the read-only drill counter.
type Progress struct {
	Answered int
	Total    int
	Correct  int
	Wrong    []string
}

// Drill walks a shuffled pool of feature names. It is not safe for concurrent use.
type Drill struct {
	names []string
	rng   *rand.Rand

	remaining []string
	current   string
	finished  bool
	correct   int
	wrong     []string
}

// New creates a drill over names, shuffled with rng.
func New(names []string, rng *rand.Rand) (*Drill, error) {
	if len(names) == 0 {
		return nil, ErrEmptyPool
	}

	d := &Drill{
		names: append([]string(nil), names...),
		rng:   rng,
	}
	d.Reset()
	return d, nil
}

// Reset reshuffles the full pool and clears the counters.
func (d *Drill) Reset() {
	d.remaining = append(d.remaining[:0], d.names...)
	d.rng.Shuffle(len(d.remaining), func(i, j int) {
		d.remaining[i], d.remaining[j] = d.remaining[j], d.remaining[i]
	})
	d.correct = 0
	d.wrong = nil
	d.finished = false
	d.pop()
}

// Current returns the name the user has to find.
func (d *Drill) Current() (string, error) {
	if d.finished {
		return "", ErrFinished
	}
	return d.current, nil
}

// Answer grades selected against the current target and moves on.
func (d *Drill) Answer(selected string) (Outcome, error) {
	if d.finished {
		return Outcome{}, ErrFinished
	}

	out := Outcome{Target: d.current, Selected: selected, Correct: selected == d.current}
	if out.Correct {
		d.correct++
	} else if !d.isWrong(d.current) {
		d.wrong = append(d.wrong, d.current)
	}

	if len(d.remaining) == 0 {
		d.finished = true
	} else {
		d.pop()
	}

	return out, nil
}

// Change swaps the current target for a random remaining one. The replaced
// target goes back into the pool.
func (d *Drill) Change() error {
	if d.finished {
		return ErrFinished
	}
	if len(d.remaining) == 0 {
		return fmt.Errorf("%w: %s is the last one", ErrNoAlternative, d.current)
	}

	i := d.rng.Intn(len(d.remaining))
	d.remaining[i], d.current = d.current, d.remaining[i]
	return nil
}

// Progress reports how far the drill is.
func (d *Drill) Progress() Progress {
	answered := len(d.names) - len(d.remaining) - 1
	if d.finished {
		answered = len(d.names)
	}

	return Progress{
		Answered: answered,
		Total:    len(d.names),
		Correct:  d.correct,
		Wrong:    append([]string(nil), d.wrong...),
	}
}

func (d *Drill) Finished() bool { return d.finished }

func (d *Drill) pop() {
	last := len(d.remaining) - 1
	d.current = d.remaining[last]
	d.remaining = d.remaining[:last]
}

func (d *Drill) isWrong(name string) bool {
	for _, w := range d.wrong {
		if w == name {
			return true
		}
	}
	return false
}
