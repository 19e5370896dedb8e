// Package fen reads and writes positions in Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rookfile/corvid/pkg/board"
)

// Initial is the FEN of the standard chess starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN string into a fresh position. A FEN record has six
// space-separated fields: piece placement, active color, castling rights,
// en-passant target, halfmove clock, and fullmove number.
func Decode(s string) (*board.Position, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 6 {
		return nil, fmt.Errorf("fen: expected 6 fields, got %d: %q", len(parts), s)
	}

	placement, err := decodePlacement(parts[0])
	if err != nil {
		return nil, fmt.Errorf("fen: %w: %q", err, s)
	}

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("fen: invalid active color %q", parts[1])
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("fen: invalid castling rights %q", parts[2])
	}

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en passant square %q", parts[3])
		}
		ep = sq
	}

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("fen: invalid halfmove clock %q", parts[4])
	}

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("fen: invalid fullmove number %q", parts[5])
	}

	pos := board.NewPosition()
	for _, pl := range placement {
		pos.Place(pl.Piece, pl.Square)
	}
	pos.SetState(active, castling, ep, halfmove, fullmove)
	return pos, nil
}

type placement struct {
	Square board.Square
	Piece  board.Piece
}

func decodePlacement(field string) ([]placement, error) {
	var out []placement

	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}

	for i, rank := range ranks {
		r := board.Rank8 - board.Rank(i)
		f := board.FileA
		for _, ch := range rank {
			switch {
			case unicode.IsDigit(ch):
				f += board.File(ch - '0')
			default:
				pc, ok := parsePiece(ch)
				if !ok {
					return nil, fmt.Errorf("invalid piece %q", ch)
				}
				if f > board.FileH {
					return nil, fmt.Errorf("rank %q overflows", rank)
				}
				out = append(out, placement{Square: board.SquareOf(f, r), Piece: pc})
				f++
			}
		}
		if f != board.FileH+1 {
			return nil, fmt.Errorf("rank %q does not total 8 files", rank)
		}
	}
	return out, nil
}

// Encode renders pos as a FEN string.
func Encode(pos *board.Position) string {
	var sb strings.Builder

	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.FileA; f <= board.FileH; f++ {
			sq := board.SquareOf(f, board.Rank(r))
			pc := pos.Piece(sq)
			if pc == board.NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(pc.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r != int(board.Rank1) {
			sb.WriteByte('/')
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%s %s %s %s %d %d",
		sb.String(), pos.SideToMove().String(), pos.CastlingRights().String(), ep,
		pos.HalfmoveClock(), pos.FullmoveNumber())
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func parseCastling(s string) (board.Castling, bool) {
	if s == "-" {
		return board.NoCastling, true
	}
	var c board.Castling
	for _, r := range s {
		switch r {
		case 'K':
			c |= board.WhiteKingside
		case 'Q':
			c |= board.WhiteQueenside
		case 'k':
			c |= board.BlackKingside
		case 'q':
			c |= board.BlackQueenside
		default:
			return 0, false
		}
	}
	return c, true
}

func parsePiece(r rune) (board.Piece, bool) {
	pt, ok := board.ParsePieceType(r)
	if !ok {
		return 0, false
	}
	color := board.White
	if unicode.IsLower(r) {
		color = board.Black
	}
	return board.MakePiece(color, pt), true
}
