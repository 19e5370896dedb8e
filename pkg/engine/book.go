package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/board/fen"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a position in
	// FEN format. Once an empty list is returned, the book should not be
	// consulted again for the game.
	Find(ctx context.Context, position string) ([]board.Move, error)
}

// Line is an opening line in coordinate notation: "e2e4 d7d5 d2d4".
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book.
var NoBook Book = &book{moves: map[string][]board.Move{}}

// NewBook builds an opening book from a set of opening lines, keyed by the
// FEN (cropped to piece placement, side to move, castling rights and
// en-passant square) reached after each prefix of each line.
func NewBook(lines []Line) (Book, error) {
	seen := map[string]map[board.Move]bool{}

	for _, line := range lines {
		pos, err := fen.Decode(fen.Initial)
		if err != nil {
			return nil, err
		}
		key := bookKey(pos)

		for _, str := range line {
			m, err := findMoveByUCI(pos, str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %v", line, err)
			}

			if seen[key] == nil {
				seen[key] = map[board.Move]bool{}
			}
			seen[key][m] = true

			pos.MakeMove(m)
			key = bookKey(pos)
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range seen {
		var list []board.Move
		for m := range v {
			list = append(list, m)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

func findMoveByUCI(pos *board.Position, s string) (board.Move, error) {
	var list board.MoveList
	pos.LegalMoves(&list)

	for i := 0; i < list.Len(); i++ {
		if m := list.At(i); m.String() == s {
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("move not found: %v", s)
}

type book struct {
	moves map[string][]board.Move // cropped fen -> candidate moves
}

func (b *book) Find(ctx context.Context, position string) ([]board.Move, error) {
	pos, err := fen.Decode(position)
	if err != nil {
		return nil, err
	}
	return b.moves[bookKey(pos)], nil
}

// bookKey crops the position's FEN to piece placement, side to move,
// castling rights and en-passant square, ignoring the move clocks so that
// the same position reached at different points in a game still matches.
func bookKey(pos *board.Position) string {
	parts := strings.Fields(fen.Encode(pos))
	return strings.Join(parts[:4], " ")
}
