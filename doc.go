// Package toolcheck verifies that a native-to-WebAssembly toolchain produces
// a working build of a small verification stub.
//
// The stub exports two functions and has one entry routine:
//
//	add(a: s32, b: s32) -> s32   two's-complement sum
//	hello_world()                prints "Hello from WebAssembly!"
//	_start                       prints "WebAssembly module initialized successfully!", exits 0
//
// # Packages
//
//	toolcheck/           One-call verification entry points
//	├── stub/            Portable stub semantics (Add, HelloWorld, Init)
//	├── cmd/stub/        wasip1 guest exporting add and hello_world
//	├── verify/          wazero host that runs the stub and records checks
//	├── reference/       Assembles the stub directly as a core module
//	├── wasm/            Minimal core module encoder
//	├── errors/          Structured error types
//	└── cmd/toolcheck/   CLI with report output and interactive mode
//
// # Building the stub
//
// A Go command instance exits once main returns, so the stub is built twice
// from one source:
//
//	GOOS=wasip1 GOARCH=wasm go build -o stub.wasm ./cmd/stub
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o stub_reactor.wasm ./cmd/stub
//
// The first binary runs the entry routine, the second keeps the instance alive
// so a host can call the exports.
//
// # Quick Start
//
//	report, err := toolcheck.CheckFiles(ctx, "stub.wasm", "stub_reactor.wasm", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !report.Passed() {
//	    for _, c := range report.Failures() {
//	        fmt.Println(c.Name, c.Detail)
//	    }
//	}
//
// Artifacts that cannot be compiled are returned as errors. Behavioral
// failures, including traps, are recorded in the report.
package toolcheck
