package verify

import (
	"bytes"
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-toolcheck/errors"
	"github.com/wippyai/wasm-toolcheck/stub"
)

// Session is one instantiated library artifact. Guest output is captured
// per call. A Session is not safe for concurrent use.
type Session struct {
	verifier *Verifier
	compiled wazero.CompiledModule
	module   api.Module
	exports  []Export
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	closed   bool
}

// Exports lists every exported function, sorted by name.
func (s *Session) Exports() []Export {
	return s.exports
}

// HasExport reports whether the module exports a function called name.
func (s *Session) HasExport(name string) bool {
	for _, e := range s.exports {
		if e.Name == name {
			return true
		}
	}
	return false
}

// CheckSignature compares the export's core signature with the expected WIT
// signature for name.
func (s *Session) CheckSignature(name string) error {
	want, ok := ExpectedSignature(name)
	if !ok {
		return errors.InvalidInput(errors.PhaseLoad, "no expected signature for "+name)
	}
	def, ok := s.compiled.ExportedFunctions()[name]
	if !ok {
		return errors.NotFound(errors.PhaseLoad, name)
	}
	wantParams, wantResults, err := want.Core()
	if err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindSignatureMismatch, err, "flatten "+want.String())
	}
	if !equalValueTypes(def.ParamTypes(), wantParams) || !equalValueTypes(def.ResultTypes(), wantResults) {
		return errors.SignatureMismatch(name,
			coreString(wantParams, wantResults),
			coreString(def.ParamTypes(), def.ResultTypes()))
	}
	return nil
}

// Add calls the add export.
func (s *Session) Add(ctx context.Context, a, b int32) (int32, error) {
	results, _, err := s.call(ctx, stub.ExportAdd, api.EncodeI32(a), api.EncodeI32(b))
	if err != nil {
		return 0, err
	}
	if len(results) != 1 {
		return 0, errors.New(errors.PhaseCall, errors.KindSignatureMismatch).
			Export(stub.ExportAdd).
			Detail("got %d results, want 1", len(results)).
			Build()
	}
	return api.DecodeI32(results[0]), nil
}

// HelloWorld calls the hello_world export and returns what it wrote to stdout.
func (s *Session) HelloWorld(ctx context.Context) (string, error) {
	_, out, err := s.call(ctx, stub.ExportHelloWorld)
	return out, err
}

// Stderr returns what the guest wrote to stderr during the last call.
func (s *Session) Stderr() string {
	return s.stderr.String()
}

func (s *Session) call(ctx context.Context, name string, args ...uint64) ([]uint64, string, error) {
	if s.closed || s.module.IsClosed() {
		return nil, "", errors.Closed(name)
	}
	fn := s.module.ExportedFunction(name)
	if fn == nil {
		return nil, "", errors.NotFound(errors.PhaseCall, name)
	}

	s.stdout.Reset()
	s.stderr.Reset()

	callCtx, cancel := s.verifier.withTimeout(ctx)
	defer cancel()

	results, err := fn.Call(callCtx, args...)
	out := s.stdout.String()
	if err != nil {
		return nil, out, errors.Trap(errors.PhaseCall, name, err)
	}

	s.verifier.log.Debug("called export",
		zap.String("export", name),
		zap.Int("results", len(results)),
		zap.Int("stdout_bytes", len(out)))
	return results, out, nil
}

// Close releases the instance and its compiled module.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.module != nil {
		err = s.module.Close(ctx)
	}
	if cerr := s.compiled.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
