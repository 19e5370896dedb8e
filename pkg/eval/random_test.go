package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/eval"
)

func TestRandomizeZeroLimitIsNoop(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	r := eval.NewRandomize(eval.Material{}, 0, 1)
	assert.Equal(t, eval.Material{}.Evaluate(pos), r.Evaluate(pos))
}

func TestRandomizeStaysWithinBounds(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	base := eval.Material{}.Evaluate(pos)
	r := eval.NewRandomize(eval.Material{}, 20, 42)

	for i := 0; i < 100; i++ {
		got := r.Evaluate(pos)
		assert.GreaterOrEqual(t, got, base-10)
		assert.LessOrEqual(t, got, base+10)
	}
}

func TestRandomizeIsReproducibleWithSameSeed(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	a := eval.NewRandomize(eval.Material{}, 20, 7)
	b := eval.NewRandomize(eval.Material{}, 20, 7)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Evaluate(pos), b.Evaluate(pos))
	}
}
