// Package reference assembles the toolchain verification stub directly as a
// WebAssembly binary.
//
// The generated module targets WASI preview1. It imports fd_write and
// proc_exit from wasi_snapshot_preview1, keeps both output lines in a data
// segment and exports:
//
//	memory                       linear memory, one page
//	add(i32, i32) -> i32         wrapping sum
//	hello_world()                writes "Hello from WebAssembly!\n" to stdout
//	_start()                     writes the init line (command layout)
//	_initialize()                no-op (reactor layout)
//
// The binaries are what a working compiler would produce for the stub, so
// they serve as a known-good baseline for the verifier. Options inject
// faults (wrong text, wrong opcode, missing exports, non-zero exit) to
// confirm the verifier notices them.
package reference
