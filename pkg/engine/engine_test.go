package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/engine"
	"github.com/rookfile/corvid/pkg/search"

	"github.com/seekerror/stdlib/pkg/lang"
)

func TestNewDefaultsToStartpos(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	assert.Equal(t, fen.Initial, e.Position())
}

func TestResetToCustomPosition(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	require.NoError(t, e.Reset(context.Background(), kiwipete))
	assert.Equal(t, kiwipete, e.Position())
}

func TestResetRejectsInvalidFEN(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	assert.Error(t, e.Reset(context.Background(), "not a fen"))
}

func TestMoveAndTakeBack(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	require.NoError(t, e.Move(context.Background(), "e2e4"))
	assert.NotEqual(t, fen.Initial, e.Position())

	require.NoError(t, e.TakeBack(context.Background()))
	assert.Equal(t, fen.Initial, e.Position())
}

func TestMoveRejectsIllegalMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	assert.Error(t, e.Move(context.Background(), "e2e5"))
}

func TestTakeBackWithoutMoveFails(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	assert.Error(t, e.TakeBack(context.Background()))
}

func TestMoveSANPlaysLegalMove(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	require.NoError(t, e.MoveSAN(context.Background(), "Nf3"))
	assert.NotEqual(t, fen.Initial, e.Position())
}

func TestAnalyzeProducesPVAndHalt(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	out, err := e.Analyze(context.Background(), search.Options{DepthLimit: lang.Some(3)})
	require.NoError(t, err)

	var last search.PV
	for pv := range out {
		last = pv
	}
	assert.Greater(t, last.Depth, 0)

	// Halt remains valid even after the search finished on its own: the
	// engine only clears the active handle when something calls Halt/Reset.
	pv, err := e.Halt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, last, pv)

	_, err = e.Halt(context.Background())
	assert.Error(t, err) // now there is no active search left to halt
}

func TestAnalyzeRejectsConcurrentSearch(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	_, err := e.Analyze(context.Background(), search.Options{DepthLimit: lang.Some(20)})
	require.NoError(t, err)

	_, err = e.Analyze(context.Background(), search.Options{DepthLimit: lang.Some(20)})
	assert.Error(t, err)

	_, _ = e.Halt(context.Background())
}

func TestResetHaltsActiveSearch(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	_, err := e.Analyze(context.Background(), search.Options{DepthLimit: lang.Some(20)})
	require.NoError(t, err)

	require.NoError(t, e.Reset(context.Background(), fen.Initial))

	// A new Analyze must be accepted: Reset halted the previous search.
	_, err = e.Analyze(context.Background(), search.Options{DepthLimit: lang.Some(1)})
	require.NoError(t, err)
	_, _ = e.Halt(context.Background())
}

func TestSetOptions(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	e.SetDepth(5)
	e.SetHash(32)
	e.SetNoise(10)

	opts := e.Options()
	assert.EqualValues(t, 5, opts.Depth)
	assert.EqualValues(t, 32, opts.Hash)
	assert.EqualValues(t, 10, opts.Noise)
}

func TestNameIncludesVersion(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	assert.Contains(t, e.Name(), "corvid")
	assert.Equal(t, "rookfile", e.Author())
}

func TestPerftStartposDepth3(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	assert.EqualValues(t, 8902, e.Perft(3))
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")

	lines := e.PerftDivide(3)

	var total uint64
	for _, line := range lines {
		total += line.Nodes
	}
	assert.Equal(t, e.Perft(3), total)
	assert.Len(t, lines, 20) // 20 legal root moves from startpos
}

func TestPerftDoesNotMutatePosition(t *testing.T) {
	e := engine.New(context.Background(), "test", "tester")
	before := e.Position()

	e.Perft(3)

	assert.Equal(t, before, e.Position())
}
