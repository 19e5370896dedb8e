package eval

import "github.com/rookfile/corvid/pkg/board"

// Pin represents a pinned piece: Attacker x-rays through Pinned to Target.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns every absolute pin of side's pieces of the given type,
// i.e. each such piece that shields side's king from an enemy slider, found
// via x-ray: remove a candidate blocker and see if a same-ray enemy slider
// appears that wasn't visible before.
func FindPins(pos *board.Position, side board.Color, pt board.PieceType) []Pin {
	var ret []Pin
	occupied := pos.Occupied()
	own := pos.PiecesOf(side, pt)
	enemy := side.Opponent()

	for targets := pos.PiecesOf(side, board.King); targets != 0; {
		target := targets.PopLSB()

		orthogonal := pos.PiecesOf(enemy, board.Rook) | pos.PiecesOf(enemy, board.Queen)
		ret = append(ret, findPinsAlongRay(pos, target, board.Rook, occupied, own, orthogonal)...)

		diagonal := pos.PiecesOf(enemy, board.Bishop) | pos.PiecesOf(enemy, board.Queen)
		ret = append(ret, findPinsAlongRay(pos, target, board.Bishop, occupied, own, diagonal)...)
	}
	return ret
}

func findPinsAlongRay(pos *board.Position, target board.Square, pt board.PieceType, occupied, own, sliders board.Bitboard) []Pin {
	var ret []Pin

	visible := board.SlidingAttacks(pt, target, occupied)
	candidates := visible & own

	for candidates != 0 {
		pinned := candidates.PopLSB()

		xray := board.SlidingAttacks(pt, target, occupied&^board.BitMask(pinned)) &^ visible
		if attackers := xray & sliders; attackers != 0 {
			ret = append(ret, Pin{Attacker: attackers.LSB(), Pinned: pinned, Target: target})
		}
	}
	return ret
}
