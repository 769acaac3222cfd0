// Package adapter defines the contract a text protocol (console, UCI, a wire format of a
// network peer) uses to drive a pkg/engine.Engine: a Command the core receives, an Output
// sink it writes lines to, and the Adapter itself that owns the translation between the two.
// Implementing any concrete protocol in full is out of scope here (only a thin console demo
// is provided, for `cmd/morlock`) -- this package exists so a future protocol implementation
// has a stable seam to plug into.
package adapter

import (
	"context"
	"strings"
)

// Command is one parsed line of protocol input: a verb and its remaining arguments, e.g.
// "reset" with args ["startpos"], or "go" with args ["depth", "6"].
type Command struct {
	Verb string
	Args []string
}

// Output is a sink for protocol responses, one line per send. Implementations may buffer,
// filter, or translate lines into a binary wire format; Adapter only ever writes text.
type Output interface {
	// Send writes a single output line. Send must not block past ctx's cancellation.
	Send(ctx context.Context, line string) error
}

// Adapter consumes a stream of Commands and drives an engine.Engine accordingly, writing
// its responses to an Output. Process returns once in is closed or ctx is cancelled.
type Adapter interface {
	Process(ctx context.Context, in <-chan Command, out Output) error
}

// ChanOutput adapts a plain string channel to the Output interface, the shape every
// protocol driver in this repo's ambient stack (console, UCI) is built around.
type ChanOutput chan<- string

func (o ChanOutput) Send(ctx context.Context, line string) error {
	select {
	case o <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseCommand splits a raw protocol line into a Command. An empty line parses to a
// Command with an empty Verb, which implementations should silently ignore.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Verb: fields[0], Args: fields[1:]}
}
