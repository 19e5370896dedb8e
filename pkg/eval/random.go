package eval

import (
	"math/rand"

	"github.com/rookfile/corvid/pkg/board"
)

// Randomize wraps an Evaluator with a small amount of noise, in centipawns,
// to diversify otherwise-deterministic play. A limit of 0 disables noise.
type Randomize struct {
	Eval  Evaluator
	limit int
	rand  *rand.Rand
}

// NewRandomize returns a Randomize evaluator that perturbs Eval's score by
// up to +/- limit/2 centipawns, using a seeded generator for reproducible runs.
func NewRandomize(e Evaluator, limit int, seed int64) Randomize {
	return Randomize{
		Eval:  e,
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (r Randomize) Evaluate(pos *board.Position) Score {
	score := r.Eval.Evaluate(pos)
	if r.limit <= 0 {
		return score
	}
	return score + Score(r.rand.Intn(r.limit)-r.limit/2)
}
