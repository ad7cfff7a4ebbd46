// Package file provides file-based source collaborators: a one-shot reader
// (with transparent .gz decompression) and a following tail, both
// satisfying plugin.SourceFunc.
package file

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/nxadm/tail"

	"github.com/corvuslabs/ptx/plugin"
)

// Read opens filename and emits one plugin.Line per line, decompressing
// transparently when the name ends in ".gz". It closes the channel once
// the file is exhausted; it does not follow appended writes.
func Read(ctx context.Context, args ...string) (<-chan plugin.Line, error) {
	if len(args) != 1 {
		return nil, plugin.ErrArgs
	}
	filename := args[0]

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r = gz
	}

	out := make(chan plugin.Line)
	go func() {
		defer close(out)
		defer f.Close()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case out <- plugin.Line{Text: scanner.Text(), Source: filename}:
			}
		}
	}()
	return out, nil
}

// Tail follows filename for appended lines, reopening across log rotation,
// using nxadm/tail. The channel closes when ctx is cancelled.
func Tail(ctx context.Context, args ...string) (<-chan plugin.Line, error) {
	if len(args) != 1 {
		return nil, plugin.ErrArgs
	}
	filename := args[0]

	t, err := tail.TailFile(filename, tail.Config{
		ReOpen:    true,
		MustExist: true,
		Follow:    true,
		Location:  &tail.SeekInfo{Whence: io.SeekEnd},
	})
	if err != nil {
		return nil, err
	}

	out := make(chan plugin.Line)
	go func() {
		defer close(out)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- plugin.Line{Text: l.Text, Source: filename}:
				}
			}
		}
	}()
	return out, nil
}
