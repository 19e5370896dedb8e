package tt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search/tt"
)

func TestWriteRead(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)

	e := tt.Entry{Bound: tt.ExactBound, Depth: 4, Score: 123, Move: board.NoMove}
	table.Write(0xdeadbeef, 0, e)

	got, ok := table.Read(0xdeadbeef, 0)
	assert.True(t, ok)
	assert.Equal(t, e, got)
}

func TestReadMiss(t *testing.T) {
	table := tt.New(context.Background(), 1<<20)

	_, ok := table.Read(0x1234, 0)
	assert.False(t, ok)
}

func TestDeeperResultReplaces(t *testing.T) {
	table := tt.New(context.Background(), 1<<16)

	table.Write(0x42, 0, tt.Entry{Bound: tt.ExactBound, Depth: 2, Score: 10})
	table.Write(0x42, 0, tt.Entry{Bound: tt.ExactBound, Depth: 8, Score: 99})

	got, ok := table.Read(0x42, 0)
	assert.True(t, ok)
	assert.Equal(t, eval.Score(99), got.Score)
	assert.Equal(t, 8, got.Depth)
}

func TestShallowerResultDoesNotReplaceSameGeneration(t *testing.T) {
	table := tt.New(context.Background(), 1<<16)

	table.Write(0x42, 0, tt.Entry{Bound: tt.ExactBound, Depth: 8, Score: 99})
	table.Write(0x42, 0, tt.Entry{Bound: tt.ExactBound, Depth: 2, Score: 10})

	got, ok := table.Read(0x42, 0)
	assert.True(t, ok)
	assert.Equal(t, eval.Score(99), got.Score)
}

func TestNewGenerationAllowsShallowerReplace(t *testing.T) {
	table := tt.New(context.Background(), 1<<16)

	table.Write(0x42, 0, tt.Entry{Bound: tt.ExactBound, Depth: 8, Score: 99})
	table.NewGeneration()
	table.Write(0x42, 0, tt.Entry{Bound: tt.ExactBound, Depth: 2, Score: 10})

	got, ok := table.Read(0x42, 0)
	assert.True(t, ok)
	assert.Equal(t, eval.Score(10), got.Score)
}

func TestMateScoreAdjustedForPly(t *testing.T) {
	table := tt.New(context.Background(), 1<<16)

	// Written at ply 5 with the root-relative score Mate - 3.
	table.Write(0x99, 5, tt.Entry{Bound: tt.ExactBound, Depth: 1, Score: eval.Mate - 3})

	// Read back at the same ply: unchanged.
	got, ok := table.Read(0x99, 5)
	assert.True(t, ok)
	assert.Equal(t, eval.Mate-3, got.Score)
}

func TestNopTable(t *testing.T) {
	var n tt.Nop

	n.Write(0x1, 0, tt.Entry{})
	_, ok := n.Read(0x1, 0)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), n.Size())
	assert.Equal(t, float64(0), n.Used())
}

func TestUsedFraction(t *testing.T) {
	table := tt.New(context.Background(), 1<<16)
	assert.Equal(t, float64(0), table.Used())

	table.Write(0x1, 0, tt.Entry{Bound: tt.ExactBound, Depth: 1})
	assert.Greater(t, table.Used(), float64(0))
}
