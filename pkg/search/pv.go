package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/rookfile/corvid/pkg/board"
	"github.com/rookfile/corvid/pkg/eval"
	"github.com/rookfile/corvid/pkg/search/timectl"
	"github.com/seekerror/stdlib/pkg/lang"
)

// PV is the result of one iterative-deepening pass: the principal variation
// found at a given depth, along with search statistics.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	var sb strings.Builder
	for i, m := range p.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, sb.String())
}

// Options holds the dynamic parameters of a single "go" search.
type Options struct {
	// DepthLimit, if set, stops iterative deepening after this depth.
	DepthLimit lang.Optional[int]
	// NodeLimit, if set, is a soft node-count budget checked at the same
	// poll points as time control.
	NodeLimit lang.Optional[uint64]
	// Clock carries the UCI go-command time parameters.
	Clock timectl.Params
}
