package verify

import (
	"bytes"
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-toolcheck/errors"
)

// Lifecycle exports defined by WASI preview1.
const (
	exportStart      = "_start"
	exportInitialize = "_initialize"
)

// Verifier loads stub binaries into a wazero runtime with WASI preview1.
// It is safe for concurrent use; Sessions are not.
type Verifier struct {
	runtime wazero.Runtime
	log     *zap.Logger
	cfg     Config
}

// New creates a verifier. A nil cfg uses DefaultConfig.
func New(ctx context.Context, cfg *Config) (*Verifier, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, errors.Wrap(errors.PhaseInstantiate, errors.KindInstantiation, err, "instantiate WASI preview1")
	}

	return &Verifier{runtime: r, log: c.logger(), cfg: c}, nil
}

// Close releases the runtime and every module compiled by it.
func (v *Verifier) Close(ctx context.Context) error {
	return v.runtime.Close(ctx)
}

// Config returns the effective configuration.
func (v *Verifier) Config() Config {
	return v.cfg
}

// withTimeout bounds ctx by the configured timeout.
func (v *Verifier) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, v.cfg.Timeout)
}

func (v *Verifier) compile(ctx context.Context, wasm []byte) (wazero.CompiledModule, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty module binary")
	}
	compiled, err := v.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	return compiled, nil
}

// EntryResult is the observable outcome of running _start.
type EntryResult struct {
	Stdout   string
	Stderr   string
	ExitCode uint32
}

// RunEntry instantiates wasm, runs _start and reports its exit code and
// output. A guest trap is returned as a trap error; proc_exit is not an error.
func (v *Verifier) RunEntry(ctx context.Context, wasm []byte) (EntryResult, error) {
	compiled, err := v.compile(ctx, wasm)
	if err != nil {
		return EntryResult{}, err
	}
	defer compiled.Close(ctx)

	if _, ok := compiled.ExportedFunctions()[exportStart]; !ok {
		return EntryResult{}, errors.NotFound(errors.PhaseEntry, exportStart)
	}

	var stdout, stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithStartFunctions(exportStart)

	callCtx, cancel := v.withTimeout(ctx)
	defer cancel()

	mod, err := v.runtime.InstantiateModule(callCtx, compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}

	res := EntryResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *sys.ExitError
		if !errors.As(err, &exitErr) || interrupted(exitErr.ExitCode()) {
			return res, errors.Trap(errors.PhaseEntry, exportStart, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	v.log.Debug("entry finished",
		zap.Uint32("exit_code", res.ExitCode),
		zap.Int("stdout_bytes", stdout.Len()))
	return res, nil
}

// Open compiles and instantiates wasm as a library. Start functions are not
// run; _initialize is called when exported.
func (v *Verifier) Open(ctx context.Context, wasm []byte) (*Session, error) {
	compiled, err := v.compile(ctx, wasm)
	if err != nil {
		return nil, err
	}

	s := &Session{
		verifier: v,
		compiled: compiled,
		exports:  exportInventory(compiled.ExportedFunctions()),
	}
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStdout(&s.stdout).
		WithStderr(&s.stderr).
		WithStartFunctions()

	mod, err := v.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	s.module = mod

	if init := mod.ExportedFunction(exportInitialize); init != nil {
		callCtx, cancel := v.withTimeout(ctx)
		_, err := init.Call(callCtx)
		cancel()
		if err != nil {
			_ = s.Close(ctx)
			return nil, errors.Trap(errors.PhaseInstantiate, exportInitialize, err)
		}
		v.log.Debug("initialized reactor", zap.Int("stdout_bytes", s.stdout.Len()))
	}
	s.stdout.Reset()
	s.stderr.Reset()

	return s, nil
}

// interrupted reports whether code was set by the runtime closing the module
// on a cancelled or expired context rather than by proc_exit.
func interrupted(code uint32) bool {
	return code == sys.ExitCodeDeadlineExceeded || code == sys.ExitCodeContextCanceled
}

func exportInventory(defs map[string]api.FunctionDefinition) []Export {
	out := make([]Export, 0, len(defs))
	for name, def := range defs {
		e := Export{Name: name, Core: coreString(def.ParamTypes(), def.ResultTypes())}
		if sig, ok := ExpectedSignature(name); ok {
			e.Signature = sig.String()
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
