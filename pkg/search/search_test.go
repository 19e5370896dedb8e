package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search"
	"github.com/rookfile/corvid/pkg/search/tt"
)

func searchToDepth(t *testing.T, position string, depth int) search.PV {
	t.Helper()

	pos, err := fen.Decode(position)
	require.NoError(t, err)

	l := search.NewLauncher()
	_, out := l.Launch(context.Background(), pos, []board.ZobristHash{pos.Zobrist()}, tt.Nop{}, eval.Material{}, search.Options{
		DepthLimit: lang.Some(depth),
	})

	var last search.PV
	for pv := range out {
		last = pv
	}
	return last
}

func TestFindsMateInOne(t *testing.T) {
	// Fool's mate: 1.f3 e5 2.g4 Qh4#, Black to move and find Qh4#.
	const position = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
	pv := searchToDepth(t, position, 3)

	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, "d8h4", pv.Moves[0].String())
	assert.True(t, eval.IsMateScore(pv.Score))
	assert.Greater(t, pv.Score, eval.Zero)
}

func TestFindsBackRankMate(t *testing.T) {
	// Classic back-rank mate: the pawns on f7/g7/h7 trap the king, so Rd8# is
	// mate in one along the open eighth rank.
	const position = "6k1/5ppp/8/8/8/8/8/3R2K1 w - - 0 1"
	pv := searchToDepth(t, position, 4)

	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, "d1d8", pv.Moves[0].String())
	assert.True(t, eval.IsMateScore(pv.Score))
}

func TestFindsLegalMoveInSparsePosition(t *testing.T) {
	const position = "8/8/8/8/8/k7/P7/K7 w - - 0 1"
	pv := searchToDepth(t, position, 3)

	require.NotEmpty(t, pv.Moves)
	assert.False(t, eval.IsMateScore(pv.Score))
}

func TestNodesAreCounted(t *testing.T) {
	pv := searchToDepth(t, fen.Initial, 2)
	assert.Greater(t, pv.Nodes, uint64(0))
}

func TestHaltStopsSearch(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	l := search.NewLauncher()
	handle, out := l.Launch(context.Background(), pos, []board.ZobristHash{pos.Zobrist()}, tt.Nop{}, eval.Material{}, search.Options{
		DepthLimit: lang.Some(20),
	})

	// Let at least one depth complete, then halt; the channel must still
	// close and Halt must be idempotent.
	<-out
	pv := handle.Halt()
	assert.GreaterOrEqual(t, pv.Depth, 1)

	for range out {
		// Drain until the launcher's goroutine closes the channel.
	}

	again := handle.Halt()
	assert.Equal(t, pv, again)
}
