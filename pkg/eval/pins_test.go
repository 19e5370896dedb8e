package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/eval"
)

func TestFindPinsDetectsAbsolutePin(t *testing.T) {
	// White knight on e3 is pinned to the king on e1 by the black rook on e8.
	pos, err := fen.Decode("4r1k1/8/8/8/8/4N3/8/4K3 w - - 0 1")
	require.NoError(t, err)

	pins := eval.FindPins(pos, board.White, board.Knight)
	require.Len(t, pins, 1)
	assert.Equal(t, board.E3, pins[0].Pinned)
	assert.Equal(t, board.E8, pins[0].Attacker)
	assert.Equal(t, board.E1, pins[0].Target)
}

func TestFindPinsNoPinWhenNotAligned(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	assert.Empty(t, eval.FindPins(pos, board.White, board.Knight))
	assert.Empty(t, eval.FindPins(pos, board.White, board.Bishop))
	assert.Empty(t, eval.FindPins(pos, board.White, board.Rook))
}

func TestFindPinsDiagonal(t *testing.T) {
	// White bishop on d2 is pinned to the king on b2... use a clean diagonal:
	// black bishop on a7, white king on e3, white knight on c5 between them.
	pos, err := fen.Decode("8/b7/8/2N5/8/4K3/8/7k w - - 0 1")
	require.NoError(t, err)

	pins := eval.FindPins(pos, board.White, board.Knight)
	require.Len(t, pins, 1)
	assert.Equal(t, board.C5, pins[0].Pinned)
	assert.Equal(t, board.A7, pins[0].Attacker)
	assert.Equal(t, board.E3, pins[0].Target)
}
