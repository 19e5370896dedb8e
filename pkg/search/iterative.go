package search

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search/timectl"
	"github.com/rookfile/corvid/pkg/search/tt"
	"github.com/seekerror/logw"
)

// maxDepth bounds iterative deepening regardless of Options.DepthLimit.
const maxDepth = 127

// Launcher starts iterative-deepening searches from a given position.
type Launcher interface {
	// Launch starts a new search from pos, which the Launcher owns exclusively
	// until the returned Handle is halted: it is mutated by make/unmake during
	// the search and must not be touched concurrently by the caller. history
	// is the game's hash history up to and including pos, used for repetition
	// detection; it is also mutated in place and restored on Halt.
	// The returned channel carries one PV per completed depth and is closed
	// when the search stops, by Halt or on its own (depth/node limit reached).
	Launch(ctx context.Context, pos *board.Position, history []board.ZobristHash, table tt.Table, evaluator eval.Evaluator, opt Options) (Handle, <-chan PV)
}

// Handle lets the engine stop an in-flight search and retrieve its last PV.
type Handle interface {
	// Halt stops the search, if running, and returns the last completed PV.
	// Idempotent.
	Halt() PV
}

// NewLauncher returns the standard iterative-deepening Launcher.
func NewLauncher() Launcher {
	return iterativeLauncher{}
}

type iterativeLauncher struct{}

func (iterativeLauncher) Launch(ctx context.Context, pos *board.Position, history []board.ZobristHash, table tt.Table, evaluator eval.Evaluator, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, maxDepth)
	stop := atomic.NewBool(false)
	h := &handle{stop: stop}

	go h.run(ctx, pos, history, table, evaluator, opt, out)

	return h, out
}

type handle struct {
	stop *atomic.Bool
	last atomic.Pointer[PV]
}

func (h *handle) Halt() PV {
	h.stop.Store(true)
	if v := h.last.Load(); v != nil {
		return *v
	}
	return PV{}
}

func (h *handle) run(ctx context.Context, pos *board.Position, history []board.ZobristHash, table tt.Table, evaluator eval.Evaluator, opt Options, out chan<- PV) {
	defer close(out)

	order := newOrdering()
	s := NewSearcher(pos, evaluator, table, order, h.stop, &history, nodeLimitOf(opt))

	depthLimit := maxDepth
	if d, ok := opt.DepthLimit.V(); ok && d < depthLimit {
		depthLimit = d
	}

	soft, hard, hasTime := timectl.Budget(opt.Clock, pos.SideToMove(), pos.Ply())
	if hasTime {
		timer := time.AfterFunc(hard, func() { h.stop.Store(true) })
		defer timer.Stop()
	}

	start := time.Now()
	var last PV

	for depth := 1; depth <= depthLimit; depth++ {
		if h.stop.Load() {
			break
		}

		score, moves := s.Search(depth)
		if h.stop.Load() && depth > 1 {
			// The last iteration was cut short by the stop signal; its PV may
			// be based on a partial search and is discarded in favor of the
			// previous, completed depth.
			break
		}

		last = PV{
			Depth: depth,
			Moves: moves,
			Score: score,
			Nodes: s.Nodes(),
			Time:  time.Since(start),
		}
		stored := last
		h.last.Store(&stored)
		out <- last

		logw.Debugf(ctx, "search %v", last)

		if eval.IsMateScore(score) {
			break
		}
		if hasTime && !timectl.ShouldStartNextDepth(time.Since(start), soft) {
			break
		}
	}

	h.stop.Store(true)
}

func nodeLimitOf(opt Options) uint64 {
	if n, ok := opt.NodeLimit.V(); ok {
		return n
	}
	return 0
}
