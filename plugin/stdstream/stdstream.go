// Package stdstream provides the stdin source collaborator, the simplest
// conforming implementation of plugin.SourceFunc: it reads one plugin.Line
// per input line until EOF or context cancellation.
package stdstream

import (
	"bufio"
	"context"
	"io"

	"github.com/corvuslabs/ptx/plugin"
)

// Source reads lines from r (os.Stdin in production) as a plugin.SourceFunc.
// args is ignored; every Line's Source is "stdin".
func Source(r io.Reader) plugin.SourceFunc {
	return func(ctx context.Context, _ ...string) (<-chan plugin.Line, error) {
		out := make(chan plugin.Line)
		go func() {
			defer close(out)
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return
				case out <- plugin.Line{Text: scanner.Text(), Source: "stdin"}:
				}
			}
		}()
		return out, nil
	}
}
