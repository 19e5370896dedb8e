package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/engine"
)

func TestBook(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{
		{"e2e4", "d7d5", "d2d4"},
		{"e2e4", "d7d6"},
		{"d2d4", "d7d6"},
	})
	require.NoError(t, err)

	tests := []struct {
		pos   string
		moves []string
	}{
		{fen.Initial, []string{"d2d4", "e2e4"}},
		{"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1", []string{"d7d6"}},
	}

	for _, tt := range tests {
		list, err := book.Find(ctx, tt.pos)
		assert.NoError(t, err)

		var got []string
		for _, m := range list {
			got = append(got, m.String())
		}
		assert.ElementsMatch(t, tt.moves, got)
	}
}

func TestBookNoMatch(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{{"e2e4"}})
	require.NoError(t, err)

	list, err := engine.NoBook.Find(ctx, fen.Initial)
	assert.NoError(t, err)
	assert.Empty(t, list)

	list, err = book.Find(ctx, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	assert.NoError(t, err)
	assert.Empty(t, list)
}
