package file

import "github.com/corvuslabs/ptx/plugin"

// Register attaches the "file" qualifier's "read" and "tail" sources to r.
func Register(r *plugin.Registration) {
	r.RegisterSource("file", "read", Read)
	r.DocumentSource("file", "read", "file.read(path): read a file once, decompressing .gz transparently")
	r.RegisterSource("file", "tail", Tail)
	r.DocumentSource("file", "tail", "file.tail(path): follow a file for appended lines")
}
