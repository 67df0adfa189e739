//go:build wasip1

package main

import (
	"os"

	"github.com/wippyai/wasm-toolcheck/stub"
)

//go:wasmexport add
func add(a, b int32) int32 {
	return stub.Add(a, b)
}

//go:wasmexport hello_world
func helloWorld() {
	stub.HelloWorld(os.Stdout)
}
