// Package san parses Standard Algebraic Notation moves ("Nf3", "exd5",
// "O-O", "e8=Q+") by matching them against a position's legal moves.
package san

import (
	"fmt"
	"strings"

	"github.com/rookfile/corvid/pkg/board"
)

// Parse resolves san to the unique legal move of pos it denotes.
func Parse(pos *board.Position, san string) (board.Move, error) {
	s := strings.TrimRight(san, "+#")
	if s == "" {
		return board.NoMove, fmt.Errorf("san: empty move")
	}

	var list board.MoveList
	pos.LegalMoves(&list)

	if s == "O-O" || s == "0-0" {
		return findCastle(&list, board.FlagKingCastle)
	}
	if s == "O-O-O" || s == "0-0-0" {
		return findCastle(&list, board.FlagQueenCastle)
	}

	promo := board.PieceType(0)
	hasPromo := false
	if i := strings.IndexByte(s, '='); i >= 0 {
		pt, ok := board.ParsePieceType(rune(s[i+1]))
		if !ok {
			return board.NoMove, fmt.Errorf("san: invalid promotion piece in %q", san)
		}
		promo, hasPromo = pt, true
		s = s[:i]
	}

	pt := board.Pawn
	if s[0] >= 'A' && s[0] <= 'Z' {
		parsed, ok := board.ParsePieceType(rune(s[0]))
		if !ok {
			return board.NoMove, fmt.Errorf("san: invalid piece letter in %q", san)
		}
		pt = parsed
		s = s[1:]
	}

	s = strings.Replace(s, "x", "", 1)

	if len(s) < 2 {
		return board.NoMove, fmt.Errorf("san: malformed move %q", san)
	}
	to, err := board.ParseSquare(s[len(s)-2:])
	if err != nil {
		return board.NoMove, fmt.Errorf("san: invalid destination in %q: %w", san, err)
	}

	disambig := s[:len(s)-2]
	fromFile, fromRank := -1, -1
	for _, r := range disambig {
		switch {
		case r >= 'a' && r <= 'h':
			fromFile = int(r - 'a')
		case r >= '1' && r <= '8':
			fromRank = int(r - '1')
		}
	}

	var match board.Move
	found := 0
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.To() != to {
			continue
		}
		if pos.Piece(m.From()).Type() != pt {
			continue
		}
		if hasPromo && (!m.IsPromotion() || m.Flag().PromotionPiece() != promo) {
			continue
		}
		if !hasPromo && m.IsPromotion() {
			continue
		}
		if fromFile >= 0 && int(m.From().File()) != fromFile {
			continue
		}
		if fromRank >= 0 && int(m.From().Rank()) != fromRank {
			continue
		}

		match = m
		found++
	}

	switch found {
	case 0:
		return board.NoMove, fmt.Errorf("san: no legal move matches %q", san)
	case 1:
		return match, nil
	default:
		return board.NoMove, fmt.Errorf("san: %q is ambiguous", san)
	}
}

func findCastle(list *board.MoveList, flag board.MoveFlag) (board.Move, error) {
	for i := 0; i < list.Len(); i++ {
		if m := list.At(i); m.Flag() == flag {
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("san: castle not legal")
}
