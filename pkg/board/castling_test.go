package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rookfile/corvid/pkg/board"
)

func TestCastlingHas(t *testing.T) {
	c := board.WhiteKingside | board.BlackQueenside

	assert.True(t, c.Has(board.WhiteKingside))
	assert.True(t, c.Has(board.BlackQueenside))
	assert.False(t, c.Has(board.WhiteQueenside))
	assert.False(t, c.Has(board.BlackKingside))
}

func TestCastlingString(t *testing.T) {
	assert.Equal(t, "-", board.NoCastling.String())
	assert.Equal(t, "KQkq", board.AllCastling.String())
	assert.Equal(t, "Kq", (board.WhiteKingside | board.BlackQueenside).String())
}
