// Package wasm encodes WebAssembly core modules.
//
// It covers the subset of the WebAssembly 1.0 binary format needed to
// assemble small WASI modules by hand: function types, function imports,
// one linear memory, function and memory exports, code bodies and active
// data segments.
//
// Build a module, validate it, then encode:
//
//	m := &wasm.Module{Memories: []wasm.Limits{{Min: 1}}}
//	add := m.AddFunc(
//		wasm.FuncType{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}},
//		wasm.FuncBody{Code: wasm.NewExpr().LocalGet(0).LocalGet(1).Op(wasm.OpI32Add).End()},
//	)
//	m.ExportFunc("add", add)
//	if err := m.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	bin := m.Encode()
//
// Sections are emitted in canonical order. Imports must be added before
// functions are defined so function indices stay stable.
package wasm
