package search

import (
	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/eval"
)

// moveList wraps a board.MoveList with the scoring needed for best-first
// move ordering: hash move first, then captures split by SEE (winning
// captures ordered by MVV-LVA, losing captures ordered below every quiet),
// then killers, then the counter move, then quiet moves by history score.
type moveList struct {
	inner board.MoveList
}

// score orders the move list for the node reached by playing prev (the
// move being refuted by a cutoff at this node), or board.NoMove at the root.
func (l *moveList) score(s *Searcher, ply int, hashMove board.Move, prev board.Move) {
	pos := s.pos
	mover := pos.SideToMove()

	l.inner.ScoreAll(func(m board.Move) int32 {
		switch {
		case !hashMove.IsNone() && m == hashMove:
			return scoreHashMove

		case m.IsPromotion():
			return scorePromotion + int32(eval.NominalValue(m.Flag().PromotionPiece()))

		case m.IsCapture():
			victim := capturedPieceType(pos, m)
			attacker := pos.Piece(m.From()).Type()
			mvvLva := int32(eval.NominalValue(victim))*8 - int32(eval.NominalValue(attacker))

			see := pos.SEE(m)
			if see >= 0 {
				return scoreGoodCapture + mvvLva
			}
			return scoreLosingCapture + see

		case s.order.isKiller(ply, m):
			return scoreKiller

		case s.order.isCounter(prev, m):
			return scoreCounter

		default:
			return s.order.historyScore(board.MakePiece(mover, pos.Piece(m.From()).Type()), m)
		}
	})
}

func capturedPieceType(pos *board.Position, m board.Move) board.PieceType {
	if m.Flag() == board.FlagEnPassant {
		return board.Pawn
	}
	return pos.Piece(m.To()).Type()
}
