package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestZobristDistinctConstants is a basic sanity check that the seeded random
// constants aren't degenerate: the 768 piece-square constants are all
// distinct and the side-to-move constant is non-zero.
func TestZobristDistinctConstants(t *testing.T) {
	seen := map[ZobristHash]bool{}
	for p := Piece(0); p < NumPieces; p++ {
		for sq := Square(0); sq < NumSquares; sq++ {
			h := zobristPieceSquare(p, sq)
			require.False(t, seen[h], "duplicate zobrist constant")
			seen[h] = true
		}
	}
	assert.NotZero(t, zobristSide())
}

// TestComputeHashMatchesIncrementalAfterMoves checks that computeHash,
// recomputed from the mailbox, agrees with the Zobrist field maintained
// incrementally through MakeMove/UnmakeMove at every node of a short walk.
func TestComputeHashMatchesIncrementalAfterMoves(t *testing.T) {
	pos := NewPosition()
	pos.Place(WhiteKing, E1)
	pos.Place(BlackKing, E8)
	pos.Place(WhitePawn, E2)
	pos.Place(WhiteRook, A1)
	pos.Place(WhiteRook, H1)
	pos.SetState(White, AllCastling&^(BlackKingside|BlackQueenside), NoSquare, 0, 1)

	assert.Equal(t, pos.computeHash(), pos.Zobrist())

	var walk func(depth int)
	walk = func(depth int) {
		if depth == 0 {
			return
		}
		var list MoveList
		pos.LegalMoves(&list)

		for i := 0; i < list.Len(); i++ {
			m := list.At(i)
			pos.MakeMove(m)
			assert.Equal(t, pos.computeHash(), pos.Zobrist(), "move %v", m)
			walk(depth - 1)
			pos.UnmakeMove()
			assert.Equal(t, pos.computeHash(), pos.Zobrist(), "after unmake %v", m)
		}
	}
	walk(3)
}
