package console_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rookfile/corvid/pkg/engine"
	"github.com/rookfile/corvid/pkg/engine/console"
)

func drain(t *testing.T, out <-chan string, pred func(string) bool) string {
	t.Helper()
	for {
		select {
		case line, ok := <-out:
			if !ok {
				require.Fail(t, "output channel closed before match found")
			}
			if pred(line) {
				return line
			}
		case <-time.After(10 * time.Second):
			require.Fail(t, "timed out waiting for expected output")
		}
	}
}

func TestPrintsBoardOnStartup(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)
	defer d.Close()

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "engine corvid") })
	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })
}

func TestMoveEnteredAsBareToken(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)
	defer d.Close()

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "e2e4"
	line := drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })
	assert.Contains(t, line, "b KQkq e3")
}

func TestInvalidMoveReported(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)
	defer d.Close()

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "e2e5"
	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "invalid move") })
}

func TestResetAndUndo(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)
	defer d.Close()

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "e2e4"
	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "undo"
	line := drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })
	assert.Contains(t, line, "w KQkq - 0 1")
}

func TestAnalyzeProducesBestmove(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)
	defer d.Close()

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "analyze 2"
	line := drain(t, out, func(s string) bool { return strings.HasPrefix(s, "bestmove") })
	assert.NotEqual(t, "bestmove 0000", line)
}

func TestDepthHashAndNoiseCommandsDoNotCrash(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)
	defer d.Close()

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "depth 4"
	in <- "hash 32"
	in <- "nohash"
	in <- "noise 5"
	in <- "nonoise"
	in <- "print"

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })
}

func TestQuitClosesDriver(t *testing.T) {
	e := engine.New(context.Background(), "corvid", "rookfile")
	in := make(chan string, 10)
	d, out := console.NewDriver(context.Background(), e, in)

	drain(t, out, func(s string) bool { return strings.HasPrefix(s, "fen:") })

	in <- "quit"

	select {
	case <-d.Closed():
	case <-time.After(10 * time.Second):
		require.Fail(t, "driver did not close after quit")
	}
}
