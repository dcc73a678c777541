package quiz

import (
	"fmt"
	"math/rand"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

// optionsPerQuestion is the size of every multiple-choice set.
const optionsPerQuestion = 4

// OptionGenerator builds multiple choice sets for a mode from the reference table.
type OptionGenerator struct {
	table []entities.Prefecture
	rng   *rand.Rand
}

// NewOptionGenerator creates a generator drawing from table with rng.
func NewOptionGenerator(table []entities.Prefecture, rng *rand.Rand) *OptionGenerator {
	return &OptionGenerator{table: table, rng: rng}
}

// GenerateOptions returns the expected answer plus three distinct distractors
// from the same role pool, in shuffled order.
func (g *OptionGenerator) GenerateOptions(target entities.Prefecture, mode entities.QuizMode) ([]string, error) {
	correct := expectedAnswer(target, mode)

	wrong, err := g.distractors(correct, mode, optionsPerQuestion-1)
	if err != nil {
		return nil, err
	}

	options := append([]string{correct}, wrong...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return options, nil
}

// distractors draws count distinct values different from correct, without replacement.
func (g *OptionGenerator) distractors(correct string, mode entities.QuizMode, count int) ([]string, error) {
	seen := map[string]struct{}{correct: {}}
	pool := make([]string, 0, len(g.table))
	for _, p := range g.table {
		v := expectedAnswer(p, mode)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		pool = append(pool, v)
	}

	if len(pool) < count {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughCandidates, count, len(pool))
	}

	out := make([]string, 0, count)
	for _, i := range g.rng.Perm(len(pool))[:count] {
		out = append(out, pool[i])
	}
	return out, nil
}

// expectedAnswer returns the value a question about p is graded against.
func expectedAnswer(p entities.Prefecture, mode entities.QuizMode) string {
	if mode == entities.ModeCapitalChoice {
		return p.Capital
	}
	return p.Name
}
