// Package perft counts leaf nodes of the legal move tree to a fixed depth, a
// standard movegen correctness and performance benchmark. See:
// https://www.chessprogramming.org/Perft_Results.
package perft

import "github.com/rookfile/corvid/pkg/board"

// Count returns the number of leaf positions reachable from pos in exactly
// depth plies of legal moves. pos is mutated during the walk but restored to
// its original state on return.
func Count(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var list board.MoveList
	pos.GenerateMoves(&list)

	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if !pos.IsLegal(m) {
			continue
		}
		pos.MakeMove(m)
		nodes += Count(pos, depth-1)
		pos.UnmakeMove()
	}
	return nodes
}

// Divide returns the perft count broken down by each legal root move, in the
// order the move generator produced them.
func Divide(pos *board.Position, depth int) []Line {
	var list board.MoveList
	pos.GenerateMoves(&list)

	var lines []Line
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if !pos.IsLegal(m) {
			continue
		}
		pos.MakeMove(m)
		count := Count(pos, depth-1)
		pos.UnmakeMove()

		lines = append(lines, Line{Move: m, Nodes: count})
	}
	return lines
}

// Line is one root move's perft subtree count, as reported by Divide.
type Line struct {
	Move  board.Move
	Nodes uint64
}
