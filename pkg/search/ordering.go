package search

import "github.com/rookfile/corvid/pkg/board"

// killerSlots is the number of killer moves retained per ply.
const killerSlots = 2

// ordering holds the move-ordering side tables the picker consults once the
// hash move and captures have been scored: killer moves (quiet moves that
// caused a beta cutoff at the same ply in a sibling line), counter moves
// (the quiet move that most recently refuted a given opponent move), and
// history (quiet moves that caused cutoffs anywhere, indexed by
// piece/destination).
type ordering struct {
	killers [board.MaxPly][killerSlots]board.Move
	counter [board.NumSquares][board.NumSquares]board.Move
	history [board.NumPieces][board.NumSquares]int32
}

func newOrdering() *ordering {
	return &ordering{}
}

func (o *ordering) clear() {
	*o = ordering{}
}

// recordCutoff updates the killer, counter and history tables after a quiet
// move m causes a beta cutoff at ply, searched to the given depth. prev is
// the move that led to the current node (the move being refuted), or
// board.NoMove at the root.
func (o *ordering) recordCutoff(ply int, depth int, pc board.Piece, m board.Move, prev board.Move) {
	if m.IsCapture() || m.IsPromotion() {
		return
	}

	if o.killers[ply][0] != m {
		o.killers[ply][1] = o.killers[ply][0]
		o.killers[ply][0] = m
	}

	if !prev.IsNone() {
		o.counter[prev.From()][prev.To()] = m
	}

	bonus := int32(depth * depth)
	o.history[pc][m.To()] += bonus
	if o.history[pc][m.To()] > historyMax {
		o.halveHistory()
	}
}

const historyMax = 1 << 19

func (o *ordering) halveHistory() {
	for p := range o.history {
		for sq := range o.history[p] {
			o.history[p][sq] /= 2
		}
	}
}

func (o *ordering) isKiller(ply int, m board.Move) bool {
	return o.killers[ply][0] == m || o.killers[ply][1] == m
}

// isCounter reports whether m is the recorded refutation of prev, the move
// that led to the current node. Always false at the root, where prev is
// board.NoMove.
func (o *ordering) isCounter(prev board.Move, m board.Move) bool {
	return !prev.IsNone() && o.counter[prev.From()][prev.To()] == m
}

func (o *ordering) historyScore(pc board.Piece, m board.Move) int32 {
	return o.history[pc][m.To()]
}

// Move ordering score bands, highest first. Captures are split by static
// exchange evaluation: SEE >= 0 scores as a good capture, ordered by
// MVV-LVA within the band; SEE < 0 scores as a losing capture, ordered
// below every quiet move (history scores are always non-negative).
// Promotions are scored by eval.NominalValue of the promoted piece within
// their own band via eval.NominalValue at the call site.
const (
	scoreHashMove      int32 = 1_000_000
	scoreGoodCapture   int32 = 800_000
	scoreKiller        int32 = 700_000
	scoreCounter       int32 = 650_000
	scorePromotion     int32 = 600_000
	scoreLosingCapture int32 = -1_000_000
)
