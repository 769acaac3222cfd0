// morlock is a console-protocol demonstration driver for pkg/engine: a thin CLI wrapper
// showing the full search stack (MTD(f) over negamax, staged evaluation, the endgame
// recognizer and an optional opening book) wired together, the way the teacher's cmd/sargon
// wires its own search onto pkg/engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kiwicore/morlock/pkg/board"
	"github.com/kiwicore/morlock/pkg/engine"
	"github.com/kiwicore/morlock/pkg/engine/adapter"
	"github.com/kiwicore/morlock/pkg/eval"
	"github.com/kiwicore/morlock/pkg/recognizer"
	"github.com/kiwicore/morlock/pkg/search"
	"github.com/seekerror/logw"
)

var (
	ply      = flag.Uint("ply", 0, "Search depth limit (zero if no limit)")
	hash     = flag.Uint("hash", 64, "Transposition table size in MB (zero to disable)")
	noise    = flag.Int("noise", 0, "Evaluation noise in millipawns (zero if deterministic)")
	bitbases = flag.String("bitbases", "", "Directory of endgame bitbase files (empty to disable)")
	bookPath = flag.String("book", "", "Opening book file, one line of coordinate moves per line (empty to disable)")
	cfgPath  = flag.String("config", "morlock.yaml", "Engine defaults config path")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlock [options]

morlock is a bitboard chess engine: MTD(f)-driven negamax search over a
staged material/positional evaluator, with transposition table, pawn hash
and endgame-recognizer support.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := engine.LoadConfig(*cfgPath)
	if err != nil {
		logw.Exitf(ctx, "Invalid config %v: %v", *cfgPath, err)
	}

	opts := cfg.Options
	if *ply > 0 {
		opts.Depth = *ply
	}
	if *hash != 64 {
		opts.Hash = *hash
	}
	if *noise > 0 {
		opts.Noise = uint(*noise)
	}

	evalTables := board.NewTables(0)
	evaluator := eval.NewEvaluator(evalTables)

	root := search.MTDf{
		Root: search.Negamax{
			Eval:       evaluator,
			Recognizer: recognizer.DefaultTable(ctx, firstNonEmpty(*bitbases, cfg.BitbaseDir)),
		},
	}

	var bookOpt engine.Option
	if path := firstNonEmpty(*bookPath, cfg.BookPath); path != "" {
		book, err := loadBook(path)
		if err != nil {
			logw.Exitf(ctx, "Invalid book %v: %v", path, err)
		}
		bookOpt = engine.WithBook(book)
	} else {
		bookOpt = engine.WithBook(engine.NoBook{})
	}

	e := engine.New(ctx, "morlock", "the morlock project", root,
		engine.WithOptions(opts),
		engine.WithTable(search.NewTranspositionTable),
		bookOpt,
	)

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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func loadBook(path string) (engine.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []engine.Line
	for _, f := range strings.Split(string(data), "\n") {
		if fields := strings.Fields(f); len(fields) > 0 {
			lines = append(lines, engine.Line(fields))
		}
	}
	return engine.NewBook(lines)
}
