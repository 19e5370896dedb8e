// Package console implements a line-oriented debugging driver for the
// engine: board printing, move entry and analysis, without the UCI protocol
// overhead.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/engine"
	"github.com/rookfile/corvid/pkg/search"
)

// ProtocolName is the identifier sent by a user to switch into console mode.
const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool // user is waiting for engine to move
	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream closed. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}
			cmd, args := strings.ToLower(parts[0]), parts[1:]

			switch cmd {
			case "reset", "r":
				d.ensureInactive(ctx)

				pos := fen.Initial
				if len(args) >= 6 && args[0] != "moves" {
					pos = strings.Join(args[0:6], " ")
				}
				if err := d.e.Reset(ctx, pos); err != nil {
					d.out <- fmt.Sprintf("invalid position: %v", err)
					break
				}

				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}
					if err := d.e.Move(ctx, arg); err != nil {
						d.out <- fmt.Sprintf("invalid move %q: %v", arg, err)
						break
					}
				}
				d.printBoard()

			case "undo", "u":
				d.ensureInactive(ctx)
				if err := d.e.TakeBack(ctx); err != nil {
					d.out <- fmt.Sprintf("undo: %v", err)
				}
				d.printBoard()

			case "print", "p":
				d.printBoard()

			case "analyze", "a":
				d.ensureInactive(ctx)

				var opt search.Options
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					opt.DepthLimit = lang.Some(depth)
				}

				out, err := d.e.Analyze(ctx, opt)
				if err != nil {
					d.out <- fmt.Sprintf("analyze: %v", err)
					break
				}
				d.active.Store(true)

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.out <- pv.String()
					}
					d.searchCompleted(last)
				}()

			case "depth", "d":
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					d.e.SetDepth(uint(depth))
				}

			case "hash":
				if len(args) > 0 {
					hash, _ := strconv.Atoi(args[0])
					d.e.SetHash(uint(hash))
				}

			case "nohash":
				d.e.SetHash(0)

			case "noise":
				if len(args) > 0 {
					noise, _ := strconv.Atoi(args[0])
					d.e.SetNoise(uint(noise))
				}

			case "nonoise":
				d.e.SetNoise(0)

			case "halt", "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(pv)
				}

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			default:
				// Assume the token is a move if it isn't a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move %q: %v", cmd, err)
				} else {
					d.printBoard()
				}
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard() {
	pos, err := fen.Decode(d.e.Position())
	if err != nil {
		d.out <- fmt.Sprintf("print: %v", err)
		return
	}

	d.out <- ""
	d.out <- files
	d.out <- horizontal

	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(r + 1))
		sb.WriteString(vertical)
		for f := board.FileA; f <= board.FileH; f++ {
			sq := board.SquareOf(f, board.Rank(r))
			if pc := pos.Piece(sq); pc != board.NoPiece {
				sb.WriteString(pc.String())
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}

	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen: %v", d.e.Position())
	d.out <- ""
}
