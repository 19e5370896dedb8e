// Package eval contains static position evaluation.
package eval

import "github.com/rookfile/corvid/pkg/board"

// Score is a position evaluation in centipawns, from the side-to-move's
// perspective unless stated otherwise.
type Score int32

const (
	Zero   Score = 0
	Inf    Score = 30000
	NegInf Score = -Inf

	// Mate is the score assigned to a position where the side to move is
	// checkmated at ply 0. Scores closer to zero than Mate but still beyond
	// MateThreshold encode "mate in N", N = Mate - |score|.
	Mate          = Inf - 1000
	MateThreshold = Mate - Score(board.MaxPly)
)

// IsMateScore reports whether s represents a forced mate (for or against).
func IsMateScore(s Score) bool {
	return s > MateThreshold || s < -MateThreshold
}

// NominalValue is the centipawn value of a piece type. The king's value is
// never used in material counting and is only defined for completeness.
func NominalValue(pt board.PieceType) Score {
	switch pt {
	case board.Pawn:
		return 100
	case board.Knight, board.Bishop:
		return 320
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	default:
		return 0
	}
}

// Evaluator is a static position evaluator, returning a score from the
// perspective of the side to move.
type Evaluator interface {
	Evaluate(pos *board.Position) Score
}

// pinPenalty is a small positional penalty for a pinned minor/rook piece,
// found via FindPins; it does not attempt to weigh the pin's severity.
const pinPenalty Score = 12

// Material evaluates material balance plus a placeholder piece-square table,
// from the perspective of the side to move. It is intentionally simple: this
// engine's focus is search quality, not evaluation depth.
type Material struct{}

func (Material) Evaluate(pos *board.Position) Score {
	var score Score
	for pt := board.Pawn; pt < board.NumPieceTypes; pt++ {
		whiteBB := pos.PiecesOf(board.White, pt)
		blackBB := pos.PiecesOf(board.Black, pt)

		score += Score(whiteBB.PopCount()-blackBB.PopCount()) * NominalValue(pt)
		score += pstSum(whiteBB, pt, board.White) - pstSum(blackBB, pt, board.Black)

		if pt == board.Knight || pt == board.Bishop || pt == board.Rook {
			score -= Score(len(FindPins(pos, board.White, pt))) * pinPenalty
			score += Score(len(FindPins(pos, board.Black, pt))) * pinPenalty
		}
	}

	if pos.SideToMove() == board.Black {
		return -score
	}
	return score
}

func pstSum(bb board.Bitboard, pt board.PieceType, c board.Color) Score {
	var sum Score
	for bb != 0 {
		sq := bb.PopLSB()
		sum += pieceSquareTable[pt][pstIndex(sq, c)]
	}
	return sum
}

// pstIndex mirrors the table vertically for Black, so both sides can share
// one White-oriented table.
func pstIndex(sq board.Square, c board.Color) int {
	if c == board.White {
		return int(sq)
	}
	return int(board.SquareOf(sq.File(), board.Rank8-sq.Rank()))
}
