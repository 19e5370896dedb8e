// Package search implements iterative-deepening principal variation search
// over a board.Position: alpha-beta with a transposition table, null-move
// pruning, late-move reductions, check extension, and quiescence search.
package search

import (
	"go.uber.org/atomic"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search/tt"
)

// pollInterval is how many nodes elapse between cooperative-cancellation
// and time/node-budget checks.
const pollInterval = 2048

// nullMoveReduction is the depth reduction applied to the verification
// search following a null move.
const nullMoveReduction = 2

// Searcher runs one depth-bounded search from the current position of pos.
// Not safe for concurrent use; the engine wrapper owns one per active "go".
type Searcher struct {
	pos   *board.Position
	eval  eval.Evaluator
	table tt.Table
	order *ordering

	// history is the shared game-history hash stack (root game moves plus
	// the moves pushed by this search), used for repetition detection. Owned
	// by the caller; Searcher appends/pops but never replaces the slice header.
	history *[]board.ZobristHash

	stop      *atomic.Bool
	nodes     uint64
	nodeLimit uint64 // 0 == unlimited
	polled    int
	timeUp    bool
}

// NewSearcher prepares a search over pos. history must contain every
// position hash played so far in the game (including pos's own, pre-search),
// and is mutated in place as the search makes and unmakes moves.
func NewSearcher(pos *board.Position, evaluator eval.Evaluator, table tt.Table, order *ordering, stop *atomic.Bool, history *[]board.ZobristHash, nodeLimit uint64) *Searcher {
	return &Searcher{
		pos:       pos,
		eval:      evaluator,
		table:     table,
		order:     order,
		history:   history,
		stop:      stop,
		nodeLimit: nodeLimit,
	}
}

func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) makeMove(m board.Move) {
	s.pos.MakeMove(m)
	*s.history = append(*s.history, s.pos.Zobrist())
}

func (s *Searcher) unmakeMove() {
	*s.history = (*s.history)[:len(*s.history)-1]
	s.pos.UnmakeMove()
}

// shouldStop polls the cooperative stop flag and node budget every
// pollInterval nodes, caching the result between polls.
func (s *Searcher) shouldStop() bool {
	if s.timeUp {
		return true
	}
	s.polled++
	if s.polled < pollInterval {
		return false
	}
	s.polled = 0

	if s.stop.Load() {
		s.timeUp = true
		return true
	}
	if s.nodeLimit != 0 && s.nodes >= s.nodeLimit {
		s.timeUp = true
		return true
	}
	return false
}

// isDraw reports whether the current position is drawn by the 50-move rule,
// insufficient material, or threefold repetition (the current position plus
// two earlier occurrences, counted across the game history plus search
// path).
func (s *Searcher) isDraw() bool {
	if s.pos.HalfmoveClock() >= 100 {
		return true
	}
	if s.pos.HasInsufficientMaterial() {
		return true
	}

	h := s.pos.Zobrist()
	occurrences := 0
	for _, past := range *s.history {
		if past == h {
			occurrences++
			if occurrences >= 3 {
				return true
			}
		}
	}
	return false
}

// drawScore returns zero perturbed by +/-1 derived from the low node-count
// bit, so that repeated draw scores don't look identical to the move picker
// and invite threefold blindness, per the mate-scoring convention.
func (s *Searcher) drawScore() eval.Score {
	if s.nodes&1 == 0 {
		return 1
	}
	return -1
}

// Search runs a fixed-depth negamax PVS from the root and returns the score
// (from the root side's perspective) and the principal variation.
func (s *Searcher) Search(depth int) (eval.Score, []board.Move) {
	s.table.NewGeneration()
	score, pv := s.negamax(depth, 0, eval.NegInf, eval.Inf, true, board.NoMove)
	return score, pv
}

// negamax searches [alpha, beta) at depth plies remaining, at the given ply
// from the root. allowNull gates null-move pruning (disabled immediately
// after a null move, and while in check). prev is the move that led to this
// node (board.NoMove at the root), consulted for counter-move ordering and
// recorded against on a cutoff.
func (s *Searcher) negamax(depth, ply int, alpha, beta eval.Score, allowNull bool, prev board.Move) (eval.Score, []board.Move) {
	if ply > 0 && s.isDraw() {
		return s.drawScore(), nil
	}

	pvNode := beta-alpha > 1
	inCheck := s.pos.InCheck(s.pos.SideToMove())
	if inCheck {
		depth++ // check extension
	}

	if depth <= 0 {
		return s.quiescence(alpha, beta, ply), nil
	}

	s.nodes++
	if s.shouldStop() {
		return alpha, nil
	}

	origAlpha := alpha
	hash := s.pos.Zobrist()
	hashMove := board.NoMove

	if entry, ok := s.table.Read(hash, ply); ok {
		hashMove = entry.Move
		if entry.Depth >= depth && !pvNode {
			switch entry.Bound {
			case tt.ExactBound:
				return entry.Score, []board.Move{entry.Move}
			case tt.LowerBound:
				if entry.Score >= beta {
					return entry.Score, []board.Move{entry.Move}
				}
			case tt.UpperBound:
				if entry.Score <= alpha {
					return entry.Score, []board.Move{entry.Move}
				}
			}
		}
	}

	// Null-move pruning: if passing still leaves us comfortably above beta,
	// the position is so good a real move isn't needed to prove a cutoff.
	// Skipped in check (no null move available) and near the leaves.
	if allowNull && !inCheck && !pvNode && depth > nullMoveReduction && s.hasNonPawnMaterial() {
		s.pos.MakeNullMove()
		score, _ := s.negamax(depth-1-nullMoveReduction, ply+1, -beta, -beta+1, false, board.NoMove)
		s.pos.UnmakeNullMove()
		score = -score

		if score >= beta {
			return beta, nil
		}
	}

	var list moveList
	s.pos.GenerateMoves(&list.inner)
	list.score(s, ply, hashMove, prev)

	legalMoves := 0
	var bestMove board.Move
	var bestPV []board.Move
	bestScore := eval.NegInf

	for {
		m, ok := list.inner.Next()
		if !ok {
			break
		}
		if !s.pos.IsLegal(m) {
			continue
		}
		legalMoves++

		reduction := 0
		if depth >= 3 && legalMoves > 3 && m.IsQuiet() && !inCheck && !s.order.isKiller(ply, m) {
			reduction = 1
		}

		s.makeMove(m)

		var score eval.Score
		var childPV []board.Move

		if legalMoves == 1 {
			score, childPV = s.negamax(depth-1, ply+1, -beta, -alpha, true, m)
			score = -score
		} else {
			score, childPV = s.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha, true, m)
			score = -score
			if score > alpha && (reduction > 0 || score < beta) {
				score, childPV = s.negamax(depth-1, ply+1, -beta, -alpha, true, m)
				score = -score
			}
		}

		s.unmakeMove()

		if score > bestScore {
			bestScore = score
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		if alpha >= beta {
			s.order.recordCutoff(ply, depth, s.pos.Piece(m.From()), m, prev)
			break
		}
	}

	if legalMoves == 0 {
		if inCheck {
			return -eval.Mate + eval.Score(ply), nil
		}
		return s.drawScore(), nil
	}

	bound := tt.ExactBound
	switch {
	case bestScore <= origAlpha:
		bound = tt.UpperBound
	case bestScore >= beta:
		bound = tt.LowerBound
	}
	s.table.Write(hash, ply, tt.Entry{Bound: bound, Depth: depth, Score: bestScore, Move: bestMove})

	return bestScore, bestPV
}

// hasNonPawnMaterial reports whether the side to move has any piece other
// than pawns and king, used to disable null-move pruning in endgames prone
// to zugzwang.
func (s *Searcher) hasNonPawnMaterial() bool {
	side := s.pos.SideToMove()
	return s.pos.PiecesOf(side, board.Knight)|s.pos.PiecesOf(side, board.Bishop)|
		s.pos.PiecesOf(side, board.Rook)|s.pos.PiecesOf(side, board.Queen) != 0
}
