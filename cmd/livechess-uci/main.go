// livechess-uci drives the engine from a DGT EBoard's physical moves via LiveChess, instead
// of from search: the "search" here just waits for the board to report a move matching one
// of the position's legal moves. It exists to exercise github.com/herohde/livechess-go as a
// genuine external-hardware collaborator (spec non-goal: no search strength is produced),
// fronted by the console demo protocol rather than a full UCI implementation.
package main

import (
	"context"
	"flag"
	"strings"
	"sync/atomic"

	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/engine"
	"github.com/kiwicore/morlock/pkg/engine/adapter"
	"github.com/kiwicore/morlock/pkg/movegen"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

var (
	serial = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip   = flag.Bool("flip", false, "Flip board")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	id := livechess.EBoardSerial(*serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			logw.Exitf(ctx, "Watch failed to autodetect board: %v", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		logw.Exitf(ctx, "Feed for %v failed: %v", id, err)
	}
	if *flip {
		if err := client.Flip(ctx, true); err != nil {
			logw.Exitf(ctx, "Flip board %v failed: %v", id, err)
		}
	}
	if err := client.Setup(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Setup board %v failed: %v", id, err)
	}

	s := newAdaptor(ctx, client, events)

	e := engine.New(ctx, "livechess-uci", "the morlock project", s,
		engine.WithOptions(engine.Options{Depth: 1}))

	in := engine.ReadStdinLines(ctx)
	cmds := make(chan adapter.Command, 100)
	go func() {
		defer close(cmds)
		for line := range in {
			cmds <- adapter.ParseCommand(line)
		}
	}()

	out := make(chan string, 100)
	go engine.WriteStdoutLines(ctx, out)

	console := adapter.NewConsole(e)
	if err := console.Process(ctx, cmds, adapter.ChanOutput(out)); err != nil {
		logw.Exitf(ctx, "Console protocol failed: %v", err)
	}
	close(out)
}

// adaptor implements search.Search by waiting for the physical board to report a move,
// rather than by searching: its "depth" is always effectively one ply.
type adaptor struct {
	client livechess.FeedClient

	last  atomic.Pointer[livechess.EBoardEventResponse]
	pulse *iox.Pulse
}

func newAdaptor(ctx context.Context, client livechess.FeedClient, events <-chan livechess.EBoardEventResponse) *adaptor {
	ret := &adaptor{
		client: client,
		pulse:  iox.NewPulse(),
	}
	go ret.process(ctx, events)
	return ret
}

func (a *adaptor) Search(ctx context.Context, sctx *search.Context, b *board.Board, depth int) (uint64, board.Score, []board.Move, error) {
	candidates := candidateMoves(b)

	if len(candidates) == 0 {
		if result := b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return 1, -board.Mate, nil, nil
		}
		return 1, board.DrawScore, nil, nil
	}

	for {
		if last := a.last.Load(); last != nil {
			if m, ok := candidates[last.Board]; ok {
				return 1, board.DrawScore, []board.Move{m}, nil
			}
		}

		select {
		case <-a.pulse.Chan():
			// ok: try again
		case <-ctx.Done():
			return 0, 0, nil, search.ErrHalted
		}
	}
}

// candidateMoves returns b's legal moves, keyed by the FEN piece placement each leads to, so
// an incoming board event can be matched against one of them by board layout alone.
func candidateMoves(b *board.Board) map[string]board.Move {
	out := map[string]board.Move{}
	for _, m := range movegen.GenerateMoves(b.Position(), b.Turn()) {
		if !b.PushMove(m) {
			continue
		}
		key := strings.Split(fen.Encode(b.Position(), b.Turn(), 0, 0), " ")[0]
		b.PopMove()

		out[key] = m
	}
	return out
}

func (a *adaptor) process(ctx context.Context, events <-chan livechess.EBoardEventResponse) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}

			if len(event.San) > 0 {
				a.last.Store(&event)
				a.pulse.Emit()
			}

		case <-ctx.Done():
			return
		}
	}
}
