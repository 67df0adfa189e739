// Command stub is the toolchain verification guest.
//
// Build it twice from the same source:
//
//	GOOS=wasip1 GOARCH=wasm go build -o stub.wasm ./cmd/stub
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o stub_reactor.wasm ./cmd/stub
//
// The first binary exports _start and prints the initialization message.
// The second exports _initialize and keeps the instance alive so a host can
// call add and hello_world. Check both with:
//
//	toolcheck -cmd stub.wasm -lib stub_reactor.wasm
package main

import (
	"os"

	"github.com/wippyai/wasm-toolcheck/stub"
)

func main() {
	stub.Init(os.Stdout)
}
