package timectl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/search/timectl"

	"github.com/seekerror/stdlib/pkg/lang"
)

func TestBudgetInfiniteHasNoLimit(t *testing.T) {
	_, _, ok := timectl.Budget(timectl.Params{Infinite: true}, board.White, 0)
	assert.False(t, ok)
}

func TestBudgetDepthLimitedHasNoTimeLimit(t *testing.T) {
	_, _, ok := timectl.Budget(timectl.Params{Depth: lang.Some(6)}, board.White, 0)
	assert.False(t, ok)
}

func TestBudgetNodesLimitedHasNoTimeLimit(t *testing.T) {
	_, _, ok := timectl.Budget(timectl.Params{Nodes: lang.Some(uint64(1000))}, board.White, 0)
	assert.False(t, ok)
}

func TestBudgetMoveTimeIsHardWall(t *testing.T) {
	soft, hard, ok := timectl.Budget(timectl.Params{MoveTime: lang.Some(2 * time.Second)}, board.White, 0)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, soft)
	assert.Equal(t, 2*time.Second, hard)
}

func TestBudgetMoveTimeOverridesDepthLimit(t *testing.T) {
	soft, hard, ok := timectl.Budget(timectl.Params{
		Depth:    lang.Some(6),
		MoveTime: lang.Some(500 * time.Millisecond),
	}, board.White, 0)
	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, soft)
	assert.Equal(t, 500*time.Millisecond, hard)
}

func TestBudgetMoveTimeSubtractsOverhead(t *testing.T) {
	soft, hard, ok := timectl.Budget(timectl.Params{
		MoveTime: lang.Some(2 * time.Second),
		Overhead: 300 * time.Millisecond,
	}, board.White, 0)
	assert.True(t, ok)
	assert.Equal(t, 1700*time.Millisecond, soft)
	assert.Equal(t, 1700*time.Millisecond, hard)
}

func TestBudgetNoClockHasNoLimit(t *testing.T) {
	_, _, ok := timectl.Budget(timectl.Params{}, board.White, 0)
	assert.False(t, ok)
}

func TestBudgetClockUsesCorrectSide(t *testing.T) {
	clock := timectl.Clock{
		WhiteTime: 60 * time.Second,
		BlackTime: 10 * time.Second,
	}

	wSoft, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.White, 0)
	assert.True(t, ok)

	bSoft, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.Black, 0)
	assert.True(t, ok)

	assert.Greater(t, wSoft, bSoft)
}

func TestBudgetClockSubtractsOverhead(t *testing.T) {
	clock := timectl.Clock{WhiteTime: 60 * time.Second, MovesToGo: 30}

	withoutOverhead, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.White, 0)
	assert.True(t, ok)

	withOverhead, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock), Overhead: 5 * time.Second}, board.White, 0)
	assert.True(t, ok)

	assert.Greater(t, withoutOverhead, withOverhead)
}

func TestBudgetHardNeverExceedsRemainingTime(t *testing.T) {
	clock := timectl.Clock{WhiteTime: 1 * time.Second, MovesToGo: 1}

	soft, hard, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.White, 0)
	assert.True(t, ok)
	assert.LessOrEqual(t, hard, 1*time.Second)
	assert.Greater(t, soft, time.Duration(0))
}

func TestBudgetMovesToGoCurveShrinksAsGameProgresses(t *testing.T) {
	clock := timectl.Clock{WhiteTime: 60 * time.Second}

	earlySoft, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.White, 0)
	assert.True(t, ok)

	lateSoft, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.White, 120)
	assert.True(t, ok)

	// At ply 0, movesToGo = 50; by ply 120 the curve has bottomed out at the
	// floor of 7, so the same clock yields a larger per-move share.
	assert.Greater(t, lateSoft, earlySoft)
}

func TestBudgetMovesToGoExplicitOverridesCurve(t *testing.T) {
	clock := timectl.Clock{WhiteTime: 60 * time.Second, MovesToGo: 1}

	soft, _, ok := timectl.Budget(timectl.Params{Clock: lang.Some(clock)}, board.White, 0)
	assert.True(t, ok)

	// MovesToGo: 1 should dominate the curve's estimate of 50, spending most
	// of the clock on the single remaining move.
	assert.Greater(t, soft, 40*time.Second)
}

func TestShouldStartNextDepth(t *testing.T) {
	soft := 10 * time.Second

	assert.True(t, timectl.ShouldStartNextDepth(1*time.Second, soft))
	assert.False(t, timectl.ShouldStartNextDepth(8*time.Second, soft))
}
