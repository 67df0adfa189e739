package reference

import (
	"slices"

	"github.com/wippyai/wasm-toolcheck/errors"
	"github.com/wippyai/wasm-toolcheck/stub"
	"github.com/wippyai/wasm-toolcheck/wasm"
)

// Layout selects which lifecycle exports the module carries.
type Layout int

const (
	// Command exports _start, which runs the entry routine.
	Command Layout = iota
	// Reactor exports an empty _initialize and no _start.
	Reactor
	// Both exports _start and _initialize.
	Both
)

func (l Layout) String() string {
	switch l {
	case Command:
		return "command"
	case Reactor:
		return "reactor"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// ParseLayout maps "command", "reactor" or "both" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "command", "":
		return Command, nil
	case "reactor":
		return Reactor, nil
	case "both":
		return Both, nil
	default:
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(s).
			Detail("unknown layout %q", s).
			Build()
	}
}

// Lifecycle export names defined by WASI preview1.
const (
	ExportStart      = "_start"
	ExportInitialize = "_initialize"
	ExportMemory     = "memory"
)

const wasiModule = "wasi_snapshot_preview1"

// Linear memory layout. The iovec and nwritten slots sit below the strings.
const (
	iovecAddr    = 0
	nwrittenAddr = 8
	stringsAddr  = 16
	stdoutFD     = 1
)

// Options controls the generated module. The zero value produces the
// faithful stub in the command layout.
type Options struct {
	// Greeting replaces the line printed by hello_world, newline excluded.
	Greeting string
	// InitMessage replaces the line printed by _start, newline excluded.
	InitMessage string
	// Omit lists export names left out of the module.
	Omit []string
	// Layout selects _start, _initialize or both.
	Layout Layout
	// ExitCode, when non-zero, makes _start call proc_exit with it.
	ExitCode int32
	// AddOp is the opcode applied to add's operands. Zero means i32.add.
	AddOp byte
}

var (
	i32       = wasm.ValI32
	voidType  = wasm.FuncType{}
	addType   = wasm.FuncType{Params: []wasm.ValType{i32, i32}, Results: []wasm.ValType{i32}}
	writeType = wasm.FuncType{Params: []wasm.ValType{i32, i32, i32, i32}, Results: []wasm.ValType{i32}}
	exitType  = wasm.FuncType{Params: []wasm.ValType{i32}}
)

// Build assembles the stub module described by opts.
func Build(opts Options) ([]byte, error) {
	greeting := opts.Greeting
	if greeting == "" {
		greeting = stub.Greeting
	}
	initMessage := opts.InitMessage
	if initMessage == "" {
		initMessage = stub.InitMessage
	}
	addOp := opts.AddOp
	if addOp == 0 {
		addOp = wasm.OpI32Add
	}

	m := &wasm.Module{Memories: []wasm.Limits{{Min: 1}}}
	fdWrite := m.AddImport(wasiModule, "fd_write", writeType)
	procExit := m.AddImport(wasiModule, "proc_exit", exitType)

	greetLine := []byte(greeting + "\n")
	initLine := []byte(initMessage + "\n")
	greetAddr := int32(stringsAddr)
	initAddr := greetAddr + int32(len(greetLine))
	m.Data = []wasm.DataSegment{
		{Offset: greetAddr, Init: greetLine},
		{Offset: initAddr, Init: initLine},
	}

	exports := map[string]uint32{}

	exports[stub.ExportAdd] = m.AddFunc(addType, wasm.FuncBody{
		Code: wasm.NewExpr().LocalGet(0).LocalGet(1).Op(addOp).End(),
	})

	hello := wasm.NewExpr()
	writeLine(hello, fdWrite, greetAddr, int32(len(greetLine)))
	exports[stub.ExportHelloWorld] = m.AddFunc(voidType, wasm.FuncBody{Code: hello.End()})

	if opts.Layout == Command || opts.Layout == Both {
		start := wasm.NewExpr()
		writeLine(start, fdWrite, initAddr, int32(len(initLine)))
		if opts.ExitCode != 0 {
			start.I32Const(opts.ExitCode).Call(procExit)
		}
		exports[ExportStart] = m.AddFunc(voidType, wasm.FuncBody{Code: start.End()})
	}
	if opts.Layout == Reactor || opts.Layout == Both {
		exports[ExportInitialize] = m.AddFunc(voidType, wasm.FuncBody{Code: wasm.NewExpr().End()})
	}

	if !slices.Contains(opts.Omit, ExportMemory) {
		m.Exports = append(m.Exports, wasm.Export{Name: ExportMemory, Kind: wasm.KindMemory})
	}
	for _, name := range []string{stub.ExportAdd, stub.ExportHelloWorld, ExportStart, ExportInitialize} {
		idx, ok := exports[name]
		if !ok || slices.Contains(opts.Omit, name) {
			continue
		}
		m.ExportFunc(name, idx)
	}

	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "validate reference module")
	}
	return m.Encode(), nil
}

// writeLine emits fd_write(stdout, iovec{addr, n}) and drops the errno.
func writeLine(e *wasm.Expr, fdWrite uint32, addr, n int32) {
	e.I32Const(iovecAddr).I32Const(addr).I32Store(2, 0)
	e.I32Const(iovecAddr + 4).I32Const(n).I32Store(2, 0)
	e.I32Const(stdoutFD).I32Const(iovecAddr).I32Const(1).I32Const(nwrittenAddr).Call(fdWrite).Drop()
}

// Command returns the faithful stub with a _start export.
func Command() []byte {
	return mustBuild(Options{Layout: Command})
}

// Reactor returns the faithful stub with an _initialize export.
func Reactor() []byte {
	return mustBuild(Options{Layout: Reactor})
}

func mustBuild(opts Options) []byte {
	bin, err := Build(opts)
	if err != nil {
		panic(err)
	}
	return bin
}
