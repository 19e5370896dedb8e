package search

import (
	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/eval"
)

// quiescence extends search at the leaves through capturing moves only
// (capturing promotions included, quiet promotions not), to avoid the horizon effect on tactical exchanges. SEE prunes
// captures that are not worth searching; delta pruning skips captures that
// cannot possibly raise alpha even if they succeed.
func (s *Searcher) quiescence(alpha, beta eval.Score, ply int) eval.Score {
	s.nodes++
	if s.shouldStop() {
		return alpha
	}

	standPat := s.eval.Evaluate(s.pos)
	if standPat >= beta {
		return beta
	}
	if alpha < standPat {
		alpha = standPat
	}

	var list moveList
	s.pos.GenerateCaptures(&list.inner)
	list.score(s, ply, board.NoMove, board.NoMove)

	for {
		m, ok := list.inner.Next()
		if !ok {
			break
		}
		if !s.pos.IsLegal(m) {
			continue
		}

		if !m.IsPromotion() {
			const deltaMargin = eval.Score(200)
			gain := eval.NominalValue(s.pos.Piece(m.To()).Type())
			if standPat+gain+deltaMargin < alpha && s.pos.SEE(m) >= 0 {
				continue
			}
			if s.pos.SEE(m) < 0 {
				continue
			}
		}

		s.makeMove(m)
		score := -s.quiescence(-beta, -alpha, ply+1)
		s.unmakeMove()

		if score > alpha {
			alpha = score
			if alpha >= beta {
				return beta
			}
		}
	}
	return alpha
}
