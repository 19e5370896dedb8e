// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/engine"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search"
	"github.com/rookfile/corvid/pkg/search/timectl"
)

// ProtocolName is the identifier sent by a GUI to switch the driver into UCI mode.
const ProtocolName = "uci"

const (
	defaultHashMB = 16
	maxHashMB     = 4096

	defaultMoveOverheadMS = 30
	maxMoveOverheadMS     = 5000
)

// Option is a UCI driver construction option.
type Option func(*options)

type options struct {
	useBook bool
	book    engine.Book
	rand    *rand.Rand
}

// UseBook instructs the driver to consult the given opening book before
// launching a search, playing a random move from the book's candidates.
func UseBook(book engine.Book, seed int64) Option {
	return func(opt *options) {
		opt.useBook = true
		opt.book = book
		opt.rand = rand.New(rand.NewSource(seed))
	}
}

// Driver implements a UCI driver for an Engine. Activated by the "uci" line.
type Driver struct {
	e   *engine.Engine
	opt options

	out chan<- string

	active       atomic.Bool    // a "go" is outstanding and awaiting bestmove
	ponder       chan search.PV // intermediate search info, forwarded as "info"
	lastPosition string         // last "position" line seen, empty if none yet
	overheadMS   atomic.Int64   // "Move Overhead" setoption value, in milliseconds

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts a driver reading UCI commands from in and writing
// responses to the returned channel, both forwarding until in is closed or
// Close is called.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		opt:    opt,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	d.overheadMS.Store(defaultMoveOverheadMS)
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

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	d.out <- fmt.Sprintf("option name Hash type spin default %v min 1 max %v", defaultHashMB, maxHashMB)
	d.out <- "option name Threads type spin default 1 min 1 max 1"
	d.out <- fmt.Sprintf("option name Move Overhead type spin default %v min 0 max %v", defaultMoveOverheadMS, maxMoveOverheadMS)
	if d.opt.book != nil {
		d.out <- fmt.Sprintf("option name OwnBook type check default %v", d.opt.useBook)
	}

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream closed. Exiting")
				return
			}

			if !d.dispatch(ctx, line) {
				return
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles one input line. It returns false only for "quit"; any
// other malformed or unrecognized command is logged and otherwise ignored so
// a single bad line never tears down the driver.
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "isready":
		d.out <- "readyok"

	case "debug":
		// Accepted but not acted on; logging is controlled by -v instead.

	case "setoption":
		d.handleSetOption(args)

	case "register":
		// No registration scheme; silently accepted.

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.lastPosition = ""

	case "position":
		if err := d.handlePosition(ctx, line, args); err != nil {
			logw.Errorf(ctx, "Invalid position %q: %v", line, err)
		}

	case "go":
		if err := d.handleGo(ctx, line, args); err != nil {
			logw.Errorf(ctx, "go failed: %v", err)
		}

	case "perft":
		if err := d.handlePerft(args); err != nil {
			logw.Errorf(ctx, "perft failed: %v", err)
		}

	case "stop":
		pv, err := d.e.Halt(ctx)
		if err == nil {
			d.searchCompleted(ctx, pv)
		}

	case "ponderhit":
		// Pondering is not implemented; nothing to switch over.

	case "quit":
		return false

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}
	return true
}

func (d *Driver) handleSetOption(args []string) {
	var name, value string
	if i := indexOf(args, "name"); i >= 0 {
		var nameParts []string
		for j := i + 1; j < len(args) && args[j] != "value"; j++ {
			nameParts = append(nameParts, args[j])
		}
		name = strings.Join(nameParts, " ")
	}
	if i := indexOf(args, "value"); i >= 0 && i+1 < len(args) {
		value = strings.Join(args[i+1:], " ")
	}

	switch name {
	case "OwnBook":
		d.opt.useBook, _ = strconv.ParseBool(value)
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetHash(uint(n))
		}
	case "Move Overhead":
		if n, err := strconv.Atoi(value); err == nil {
			d.overheadMS.Store(int64(n))
		}
	}
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) error {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				return fmt.Errorf("move %v: %w", arg, err)
			}
		}
		d.lastPosition = line
		return nil
	}

	position := fen.Initial
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
	} else if len(args) >= 1 && args[0] != "startpos" {
		return fmt.Errorf("malformed position command")
	}

	if err := d.e.Reset(ctx, position); err != nil {
		return err
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
			return fmt.Errorf("move %v: %w", arg, err)
		}
	}
	d.lastPosition = line
	return nil
}

func (d *Driver) handleGo(ctx context.Context, line string, args []string) error {
	d.ensureInactive(ctx)

	var opt search.Options
	var clock timectl.Clock
	hasClock := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "nodes", "movetime":
			i++
			if i == len(args) {
				return fmt.Errorf("no argument for %v: %v", args[i-1], line)
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid argument for %v: %w", args[i-1], err)
			}

			switch args[i-1] {
			case "depth":
				opt.DepthLimit = lang.Some(n)
				opt.Clock.Depth = lang.Some(n)
			case "nodes":
				opt.NodeLimit = lang.Some(uint64(n))
				opt.Clock.Nodes = lang.Some(uint64(n))
			case "movetime":
				opt.Clock.MoveTime = lang.Some(time.Duration(n) * time.Millisecond)
			case "wtime":
				clock.WhiteTime = time.Duration(n) * time.Millisecond
				hasClock = true
			case "btime":
				clock.BlackTime = time.Duration(n) * time.Millisecond
				hasClock = true
			case "winc":
				clock.WhiteIncrement = time.Duration(n) * time.Millisecond
			case "binc":
				clock.BlackIncrement = time.Duration(n) * time.Millisecond
			case "movestogo":
				clock.MovesToGo = n
			}

		case "infinite":
			opt.Clock.Infinite = true

		default:
			// searchmoves, ponder, mate: accepted but not implemented.
		}
	}
	if hasClock {
		opt.Clock.Clock = lang.Some(clock)
	}
	opt.Clock.Overhead = time.Duration(d.overheadMS.Load()) * time.Millisecond

	if d.opt.useBook && d.opt.book != nil {
		moves, err := d.opt.book.Find(ctx, d.e.Position())
		if err != nil {
			return fmt.Errorf("book lookup: %w", err)
		}
		if len(moves) > 0 {
			winner := moves[d.opt.rand.Intn(len(moves))]
			d.active.Store(true)
			d.searchCompleted(ctx, search.PV{Moves: []board.Move{winner}})
			return nil
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		return err
	}
	d.active.Store(true)

	infinite := opt.Clock.Infinite
	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()

	return nil
}

func (d *Driver) handlePerft(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing depth")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid depth %q: %w", args[0], err)
	}

	var total uint64
	for _, line := range d.e.PerftDivide(depth) {
		d.out <- fmt.Sprintf("%v: %v", line.Move, line.Nodes)
		total += line.Nodes
	}
	d.out <- fmt.Sprintf("Nodes searched: %v", total)
	return nil
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
	_ = ctx
}

func printPV(pv search.PV) string {
	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))

	if eval.IsMateScore(pv.Score) {
		parts = append(parts, fmt.Sprintf("score mate %v", mateDistanceInMoves(pv.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}

	parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		for _, m := range pv.Moves {
			parts = append(parts, m.String())
		}
	}

	return strings.Join(parts, " ")
}

// mateDistanceInMoves converts a mate score, in plies from the position
// currently being reported, into full moves, signed from the engine's point
// of view (positive: engine mates, negative: engine gets mated).
func mateDistanceInMoves(s eval.Score) int {
	plies := eval.Mate - s
	if s < 0 {
		plies = eval.Mate + s
	}
	moves := (int(plies) + 1) / 2
	if s < 0 {
		return -moves
	}
	return moves
}
