// Package timectl computes search time budgets from UCI "go" parameters.
package timectl

import (
	"time"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Clock holds the raw UCI time-control fields for both sides.
type Clock struct {
	WhiteTime, BlackTime           time.Duration
	WhiteIncrement, BlackIncrement time.Duration
	MovesToGo                      int // 0 == unknown / rest of game
}

// Params holds one "go" command's time-relevant parameters. A field left as
// lang.None means the corresponding UCI token was absent.
type Params struct {
	MoveTime lang.Optional[time.Duration]
	Clock    lang.Optional[Clock]
	Infinite bool
	Depth    lang.Optional[int]
	Nodes    lang.Optional[uint64]

	// Overhead is subtracted from every time-based deadline to leave margin
	// for engine-external latency (I/O, GUI move relay), per UCI's "Move
	// Overhead" option.
	Overhead time.Duration
}

// minBudget is the floor below which Budget never shrinks a clock-based soft
// limit. A movetime limit is used as given, less overhead, with no floor.
const minBudget = 10 * time.Millisecond

// movesToGoCurve estimates the number of moves remaining in the game when
// the GUI doesn't supply "movestogo": max(50 - min(ply/2, 43), 7), tapering
// from 50 at the start of the game down to a floor of 7 so the engine
// doesn't overspend deep into an endgame.
func movesToGoCurve(ply int) int {
	capped := ply / 2
	if capped > 43 {
		capped = 43
	}
	n := 50 - capped
	if n < 7 {
		n = 7
	}
	return n
}

// Budget computes the soft and hard time limits for the side to move at the
// given game ply (used only to estimate movesToGo when the GUI omits it).
// Soft is the point after which a new iterative-deepening depth should not
// be started; hard is the point at which a search in progress must stop.
// ok is false when no time-based limit applies (infinite, depth-limited, or
// nodes-limited searches, and movetime still returns ok=true since it is a
// hard wall-clock limit by definition).
func Budget(p Params, side board.Color, ply int) (soft, hard time.Duration, ok bool) {
	overhead := p.Overhead
	if overhead < 0 {
		overhead = 0
	}

	_, hasDepth := p.Depth.V()
	_, hasNodes := p.Nodes.V()
	if p.Infinite || hasDepth || hasNodes {
		if mt, has := p.MoveTime.V(); has {
			mt -= overhead
			return mt, mt, true
		}
		return 0, 0, false
	}

	if mt, has := p.MoveTime.V(); has {
		mt -= overhead
		return mt, mt, true
	}

	c, has := p.Clock.V()
	if !has {
		return 0, 0, false
	}

	remaining, increment := c.WhiteTime, c.WhiteIncrement
	if side == board.Black {
		remaining, increment = c.BlackTime, c.BlackIncrement
	}
	remaining -= overhead

	movesToGo := movesToGoCurve(ply)
	if c.MovesToGo > 0 {
		movesToGo = c.MovesToGo
	}

	// Spend the smaller of: 80% of what's left, or an equal share of what's
	// left over the estimated remaining moves, plus the increment we'll gain
	// back before the next move.
	share := remaining / time.Duration(movesToGo)
	eighty := remaining * 8 / 10

	soft = share + increment
	if eighty < soft {
		soft = eighty
	}
	if soft < minBudget {
		soft = minBudget
	}

	hard = 3 * soft
	if hard > remaining-minBudget && remaining > minBudget {
		hard = remaining - minBudget
	}
	return soft, hard, true
}

// ShouldStartNextDepth reports whether, having spent elapsed of a soft
// budget, the search should begin another iterative-deepening pass. Per the
// 70%-elapsed rule: once 70% of the soft budget is gone, a new (likely much
// more expensive) depth is not worth starting.
func ShouldStartNextDepth(elapsed, soft time.Duration) bool {
	return elapsed < (soft*7)/10
}
