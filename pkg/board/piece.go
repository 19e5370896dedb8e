package board

import "strings"

// PieceType represents a chess piece kind, without color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King

	NumPieceTypes = 6
)

func (pt PieceType) Valid() bool {
	return pt < NumPieceTypes
}

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}

// ParsePieceType parses a FEN/SAN piece letter, case-insensitively.
func ParsePieceType(r rune) (PieceType, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return 0, false
	}
}

// Piece represents a (Color, PieceType) pair, a 12-value enumeration used to
// index piece_bb and the mailbox. NoPiece represents an empty square.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing

	NumPieces = 12

	// NoPiece represents an empty mailbox slot.
	NoPiece Piece = 12
)

// MakePiece combines a color and piece type into a Piece.
func MakePiece(c Color, pt PieceType) Piece {
	return Piece(c)*6 + Piece(pt)
}

// Color returns the piece's color.
func (p Piece) Color() Color {
	if p >= 6 {
		return Black
	}
	return White
}

// Type returns the piece's kind.
func (p Piece) Type() PieceType {
	return PieceType(p % 6)
}

func (p Piece) Valid() bool {
	return p < NumPieces
}

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	s := p.Type().String()
	if p.Color() == White {
		return strings.ToUpper(s)
	}
	return s
}
