// Package verify checks a compiled toolchain verification stub.
//
// A Verifier owns a wazero runtime with WASI preview1. It runs the command
// artifact's _start and inspects its exit code and output, then instantiates
// the library artifact and calls add and hello_world:
//
//	v, err := verify.New(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer v.Close(ctx)
//
//	report, err := v.Verify(ctx, verify.Artifacts{Command: cmdWasm, Library: libWasm})
//	if err != nil {
//	    return err // artifact failed to compile or instantiate
//	}
//	if !report.Passed() {
//	    for _, c := range report.Failures() {
//	        fmt.Println(c.Name, c.Detail)
//	    }
//	}
//
// # Checks
//
//	entry/exit-code         _start exits with status 0
//	entry/output            _start writes exactly the init line
//	exports/add             add is exported as (i32, i32) -> i32
//	exports/hello_world     hello_world is exported as () -> ()
//	add/sum                 sums without overflow match
//	add/wraparound          overflow wraps as two's complement
//	add/commutative         add(a, b) == add(b, a)
//	add/repeatable          repeated calls return the same value
//	hello_world/output      one call writes exactly the greeting line
//	hello_world/repeatable  repeated calls write the same line each time
//
// Expected export signatures are written as WIT function types and
// flattened to core value types before comparison.
//
// # Build modes
//
// A Go guest built as a command exits once main returns, so its exports
// cannot be called afterwards. Pass the command build as Command and the
// -buildmode=c-shared build as Library. Modules that keep running after
// _start, such as hand-written or C-compiled ones, can use Single.
package verify
