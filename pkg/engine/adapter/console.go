package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/board/fen"
	"github.com/kiwicore/morlock/pkg/engine"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/kiwicore/morlock/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Console is a minimal line-oriented debug protocol: "reset [fen] [moves ...]", "undo",
// "print", "analyze [depth]", "depth N", "hash N", "noise N", "halt", "quit", and bare
// coordinate moves ("e2e4"). It exists as a demonstration driver for cmd/morlock, not as a
// complete protocol implementation.
type Console struct {
	e *engine.Engine

	active atomic.Bool
}

// NewConsole constructs a Console adapter driving e.
func NewConsole(e *engine.Engine) *Console {
	return &Console{e: e}
}

func (c *Console) Process(ctx context.Context, in <-chan Command, out Output) error {
	_ = out.Send(ctx, fmt.Sprintf("engine %v (%v)", c.e.Name(), c.e.Author()))
	c.printBoard(ctx, out)

	for cmd := range in {
		switch strings.ToLower(cmd.Verb) {
		case "reset", "r":
			c.ensureInactive(ctx)

			pos := fen.Initial
			args := cmd.Args
			if len(args) > 0 && args[0] != "moves" {
				if len(args) >= 6 {
					pos = strings.Join(args[0:6], " ")
					args = args[6:]
				}
			}
			if err := c.e.Reset(ctx, pos); err != nil {
				_ = out.Send(ctx, fmt.Sprintf("invalid position: %v", err))
				continue
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
				if err := c.e.Move(ctx, arg); err != nil {
					_ = out.Send(ctx, fmt.Sprintf("invalid move '%v': %v", arg, err))
					break
				}
			}
			c.printBoard(ctx, out)

		case "undo", "u":
			c.ensureInactive(ctx)
			_ = c.e.TakeBack(ctx)
			c.printBoard(ctx, out)

		case "print", "p":
			c.printBoard(ctx, out)

		case "analyze", "a":
			c.ensureInactive(ctx)

			var opt searchctl.Options
			if len(cmd.Args) > 0 {
				if depth, err := strconv.Atoi(cmd.Args[0]); err == nil {
					opt.DepthLimit = lang.Some(uint(depth))
				}
			}

			pv, err := c.e.Analyze(ctx, opt)
			if err != nil {
				_ = out.Send(ctx, fmt.Sprintf("analyze failed: %v", err))
				continue
			}
			c.active.Store(true)

			go func() {
				var last search.PV
				for p := range pv {
					last = p
					_ = out.Send(ctx, p.String())
				}
				c.searchCompleted(ctx, out, last)
			}()

		case "depth", "d":
			if len(cmd.Args) > 0 {
				if depth, err := strconv.Atoi(cmd.Args[0]); err == nil {
					c.e.SetDepth(uint(depth))
				}
			}

		case "hash":
			if len(cmd.Args) > 0 {
				if size, err := strconv.Atoi(cmd.Args[0]); err == nil {
					c.e.SetHash(uint(size))
				}
			}

		case "noise":
			if len(cmd.Args) > 0 {
				if noise, err := strconv.Atoi(cmd.Args[0]); err == nil {
					c.e.SetNoise(uint(noise))
				}
			}

		case "halt", "stop":
			pv, err := c.e.Halt(ctx)
			if err == nil {
				c.searchCompleted(ctx, out, pv)
			}

		case "quit", "exit", "q":
			c.ensureInactive(ctx)
			return nil

		case "":
			// ignore empty command

		default:
			// Assume a bare coordinate move if the verb isn't recognized.
			c.ensureInactive(ctx)
			if err := c.e.Move(ctx, cmd.Verb); err != nil {
				_ = out.Send(ctx, fmt.Sprintf("invalid move: '%v'", cmd.Verb))
			} else {
				c.printBoard(ctx, out)
			}
		}
	}

	logw.Infof(ctx, "Console input stream closed")
	return nil
}

func (c *Console) ensureInactive(ctx context.Context) {
	c.active.Store(false)
	_, _ = c.e.Halt(ctx)
}

func (c *Console) searchCompleted(ctx context.Context, out Output, pv search.PV) {
	if !c.active.CompareAndSwap(true, false) {
		return // stale or duplicate result
	}
	if len(pv.Moves) > 0 {
		_ = out.Send(ctx, fmt.Sprintf("bestmove %v", pv.Moves[0]))
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (c *Console) printBoard(ctx context.Context, out Output) {
	b := c.e.Board()
	p := b.Position()

	_ = out.Send(ctx, "")
	_ = out.Send(ctx, files)
	_ = out.Send(ctx, horizontal)

	var sb strings.Builder
	sb.WriteString("8" + vertical)
	for i := board.ZeroSquare; i < board.NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			_ = out.Send(ctx, sb.String())
			_ = out.Send(ctx, horizontal)

			sb.Reset()
			sb.WriteString((7 - i.Rank()).String())
			sb.WriteString(vertical)
		}

		if color, piece, ok := p.Square(board.NumSquares - i - 1); ok {
			sb.WriteString(printPiece(color, piece))
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(vertical)
	}
	_ = out.Send(ctx, sb.String())
	_ = out.Send(ctx, horizontal)
	_ = out.Send(ctx, files)
	_ = out.Send(ctx, "")
	_ = out.Send(ctx, fmt.Sprintf("fen:    %v", c.e.Position()))
	_ = out.Send(ctx, fmt.Sprintf("result: %v, fullmoves: %v, hash: 0x%x", b.Result(), b.FullMoves(), b.Hash()))
	_ = out.Send(ctx, "")
}

func printPiece(c board.Color, p board.Piece) string {
	if c == board.White {
		return strings.ToUpper(p.String())
	}
	return strings.ToLower(p.String())
}
