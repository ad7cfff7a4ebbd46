package stdstream

import (
	"os"

	"github.com/corvuslabs/ptx/plugin"
)

// Register attaches the "std" qualifier's "in" source, reading os.Stdin.
func Register(r *plugin.Registration) {
	r.RegisterSource("std", "in", Source(os.Stdin))
	r.DocumentSource("std", "in", "std.in: read lines from stdin")
}
