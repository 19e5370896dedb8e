package board

// MaxMoves bounds the number of pseudo-legal moves in any reachable chess
// position; 256 comfortably exceeds the theoretical maximum (218).
const MaxMoves = 256

// scoredMove pairs a move with its transient ordering score. The score is
// not part of the move's identity.
type scoredMove struct {
	move  Move
	score int32
}

// MoveList is a fixed-capacity buffer of moves, appended by the generator and
// rearranged in place by the move picker. It never allocates.
type MoveList struct {
	moves [MaxMoves]scoredMove
	len   int
	next  int // picker cursor
}

// Reset empties the list for reuse.
func (l *MoveList) Reset() {
	l.len = 0
	l.next = 0
}

// Len returns the number of moves currently in the list.
func (l *MoveList) Len() int {
	return l.len
}

// Add appends a move with zero score.
func (l *MoveList) Add(m Move) {
	l.moves[l.len] = scoredMove{move: m}
	l.len++
}

// At returns the move at index i, ignoring picker order.
func (l *MoveList) At(i int) Move {
	return l.moves[i].move
}

// Contains reports whether m is present in the list.
func (l *MoveList) Contains(m Move) bool {
	for i := 0; i < l.len; i++ {
		if l.moves[i].move == m {
			return true
		}
	}
	return false
}

// SetScore assigns an ordering score to the move at index i.
func (l *MoveList) SetScore(i int, score int32) {
	l.moves[i].score = score
}

// ScoreAll assigns a score to every move in the list via fn.
func (l *MoveList) ScoreAll(fn func(Move) int32) {
	for i := 0; i < l.len; i++ {
		l.moves[i].score = fn(l.moves[i].move)
	}
}

// Next performs one selection-sort step: it scans the remaining unpicked
// moves, swaps the highest-scored into the cursor position, and returns it.
// This gives best-first ordering without sorting moves that are never
// examined (e.g. after a beta cutoff).
func (l *MoveList) Next() (Move, bool) {
	if l.next >= l.len {
		return Move(0), false
	}

	best := l.next
	for i := l.next + 1; i < l.len; i++ {
		if l.moves[i].score > l.moves[best].score {
			best = i
		}
	}
	l.moves[l.next], l.moves[best] = l.moves[best], l.moves[l.next]

	m := l.moves[l.next].move
	l.next++
	return m, true
}
