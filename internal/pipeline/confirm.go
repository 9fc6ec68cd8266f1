package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides whether a discovered candidate should be transcoded.
// A cancelled ctx must make Confirm return promptly.
type Confirmer interface {
	Confirm(ctx context.Context, c Candidate) bool
}

// AutoConfirm accepts every candidate without prompting.
type AutoConfirm struct{}

// Confirm always returns true.
func (AutoConfirm) Confirm(context.Context, Candidate) bool { return true }

type readResult struct {
	line string
	err  error
}

// ConsoleConfirmer asks the operator a y/n question per candidate and blocks
// until a line is read or ctx is cancelled.
type ConsoleConfirmer struct {
	in  *bufio.Reader
	out io.Writer

	// pending holds a read abandoned by a cancelled prompt; the next prompt
	// picks up its answer instead of starting a second reader.
	pending chan readResult
}

// NewConsoleConfirmer reads answers from in and writes the prompt to out.
func NewConsoleConfirmer(in io.Reader, out io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm returns true only for a "y" answer (trimmed, any case). Any other
// answer, end of input, or cancellation declines.
func (c *ConsoleConfirmer) Confirm(ctx context.Context, _ Candidate) bool {
	fmt.Fprint(c.out, "Do you want to process this file? (y/n): ")

	if c.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			ch <- readResult{line, err}
		}()
		c.pending = ch
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return false
	case r := <-c.pending:
		c.pending = nil
		if r.err != nil && r.line == "" {
			fmt.Fprintln(c.out)
			return false
		}
		return strings.ToLower(strings.TrimSpace(r.line)) == "y"
	}
}
