// Package stub holds the behavior of the toolchain verification module:
// an int32 addition, a greeting printer and the entry routine message.
//
// The package is shared by the wasip1 guest in cmd/stub and by the host
// verifier, which uses Add to compute expected results. It stays free of
// third-party imports because it is linked into the guest binary.
package stub

import (
	"fmt"
	"io"
)

// Export names visible to the host.
const (
	ExportAdd        = "add"
	ExportHelloWorld = "hello_world"
)

// Lines written to standard output, newline excluded.
const (
	Greeting    = "Hello from WebAssembly!"
	InitMessage = "WebAssembly module initialized successfully!"
)

// Add returns a+b with two's-complement wraparound.
func Add(a, b int32) int32 {
	return a + b
}

// HelloWorld writes the greeting line to w. Write errors are ignored.
func HelloWorld(w io.Writer) {
	_, _ = fmt.Fprintln(w, Greeting)
}

// Init writes the entry routine's confirmation line to w.
func Init(w io.Writer) {
	_, _ = fmt.Fprintln(w, InitMessage)
}
