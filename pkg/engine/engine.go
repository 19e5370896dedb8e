// Package engine wraps position state, the search launcher and an opening
// book into the game-level API a protocol driver (UCI, console) talks to.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/board/san"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search"
	"github.com/rookfile/corvid/pkg/search/perft"
	"github.com/rookfile/corvid/pkg/search/tt"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine-wide defaults, changeable at runtime via UCI setoption.
type Options struct {
	// Depth is the default search depth limit. Zero means no limit.
	Depth uint
	// Hash is the transposition table size in MB. Zero disables the table.
	Hash uint
	// Noise adds up to this many centipawns of random evaluation noise.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// Engine owns the current game: position, history and the active search. It
// serializes all access behind a single mutex; the UCI driver is expected to
// call it from a single goroutine per command but Halt may race a "stop".
type Engine struct {
	name, author string

	launcher search.Launcher
	factory  func(ctx context.Context, size uint64) tt.Table
	seed     int64
	opts     Options

	pos     *board.Position
	history []board.ZobristHash
	table   tt.Table
	noise   eval.Evaluator
	active  search.Handle
	mu      sync.Mutex
}

// Option is an engine construction option.
type Option func(*Engine)

// WithTable configures the transposition table factory used on Reset.
func WithTable(factory func(ctx context.Context, size uint64) tt.Table) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets the engine's default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithSeed fixes the random seed used for evaluation noise, for reproducible
// testing. Defaults to a fixed, non-zero seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New constructs an engine that identifies itself as name/author under UCI.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: search.NewLauncher(),
		factory:  tt.New,
		seed:     0xC0FFEE,
	}
	for _, fn := range opts {
		fn(e)
	}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version, for UCI's "id name" response.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author, for UCI's "id author" response.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
}

func (e *Engine) SetNoise(centipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = centipawns
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.pos)
}

// Reset replaces the game with the position described by the given FEN.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise)

	e.haltSearchIfActive(ctx)

	pos, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.pos = pos
	e.history = []board.ZobristHash{pos.Zobrist()}

	e.table = tt.Nop{}
	if e.opts.Hash > 0 {
		e.table = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}

	e.noise = eval.Material{}
	if e.opts.Noise > 0 {
		e.noise = eval.NewRandomize(eval.Material{}, int(e.opts.Noise), e.seed)
	}

	logw.Infof(ctx, "New position: %v", e.pos)
	return nil
}

// Move plays a move in coordinate notation, e.g. "e2e4" or "e7e8q", usually
// the opponent's reply. The move must be legal in the current position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	e.haltSearchIfActive(ctx)

	m, err := e.findLegalMove(move)
	if err != nil {
		return err
	}

	e.pos.MakeMove(m)
	e.history = append(e.history, e.pos.Zobrist())

	logw.Infof(ctx, "Move %v: %v", m, e.pos)
	return nil
}

// MoveSAN plays a move given in Standard Algebraic Notation, e.g. "Nf3" or
// "exd5". Used by front ends, such as a physical-board feed, that report
// moves in SAN rather than coordinate notation.
func (e *Engine) MoveSAN(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActive(ctx)

	m, err := san.Parse(e.pos, move)
	if err != nil {
		return err
	}

	e.pos.MakeMove(m)
	e.history = append(e.history, e.pos.Zobrist())

	logw.Infof(ctx, "Move %v (%v): %v", move, m, e.pos)
	return nil
}

// TakeBack undoes the latest move played via Move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) <= 1 {
		return fmt.Errorf("no move to take back")
	}

	e.haltSearchIfActive(ctx)

	e.pos.UnmakeMove()
	e.history = e.history[:len(e.history)-1]

	logw.Infof(ctx, "Takeback: %v", e.pos)
	return nil
}

// Perft returns the number of leaf positions reachable from the current
// position in exactly depth plies of legal moves.
func (e *Engine) Perft(depth int) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return perft.Count(e.pos.Clone(), depth)
}

// PerftDivide returns the Perft count broken down by each legal root move.
func (e *Engine) PerftDivide(depth int) []perft.Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	return perft.Divide(e.pos.Clone(), depth)
}

func (e *Engine) findLegalMove(move string) (board.Move, error) {
	var list board.MoveList
	e.pos.LegalMoves(&list)

	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.String() == move {
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("illegal move: %v", move)
}

// Analyze starts a new search of the current position and returns a channel
// of increasingly deep principal variations.
func (e *Engine) Analyze(ctx context.Context, opt search.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(int(e.opts.Depth))
	}

	logw.Infof(ctx, "Analyze %v", e.pos)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	history := append([]board.ZobristHash(nil), e.history...)
	handle, out := e.launcher.Launch(ctx, e.pos.Clone(), history, e.table, e.noise, opt)
	e.active = handle
	return out, nil
}

// Halt stops the active search and returns its last principal variation.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search halted: %v", pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
