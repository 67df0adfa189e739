package verify

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-toolcheck/errors"
	"github.com/wippyai/wasm-toolcheck/stub"
)

// Artifacts are the binaries under test. Command must export _start;
// Library must export add and hello_world. Either may be nil to skip its
// checks, and both may be the same binary.
type Artifacts struct {
	Command []byte
	Library []byte
}

// Single uses one binary for both roles.
func Single(wasm []byte) Artifacts {
	return Artifacts{Command: wasm, Library: wasm}
}

type addCase struct {
	a, b int32
}

var (
	sumCases = []addCase{
		{1, 2},
		{0, 0},
		{-5, 5},
		{-1000, -2000},
		{123456, -654321},
		{math.MaxInt32, 0},
		{math.MinInt32, 0},
		{math.MaxInt32 - 1, 1},
	}
	wrapCases = []addCase{
		{math.MaxInt32, 1},
		{math.MinInt32, -1},
		{math.MaxInt32, math.MaxInt32},
		{math.MinInt32, math.MinInt32},
	}
	repeatCase = addCase{7, 35}
)

var (
	errEntryMissing = &errors.Error{Phase: errors.PhaseEntry, Kind: errors.KindNotFound}
	errEntryTrap    = &errors.Error{Phase: errors.PhaseEntry, Kind: errors.KindTrap}
)

// Verify runs every check against art. Behavioral failures are recorded in
// the report; an error is returned only when an artifact cannot be compiled
// or instantiated.
func (v *Verifier) Verify(ctx context.Context, art Artifacts) (*Report, error) {
	if art.Command == nil && art.Library == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no artifacts to verify")
	}

	report := &Report{}

	if art.Command != nil {
		if err := v.checkEntry(ctx, art.Command, report); err != nil {
			return nil, err
		}
	} else {
		report.skip(CheckEntryExitCode, "no command artifact")
		report.skip(CheckEntryOutput, "no command artifact")
	}

	if art.Library != nil {
		if err := v.checkLibrary(ctx, art.Library, report); err != nil {
			return nil, err
		}
	} else {
		for _, name := range []string{
			CheckExportAdd, CheckExportHelloWorld,
			CheckAddSum, CheckAddWraparound, CheckAddCommutative, CheckAddRepeatable,
			CheckHelloWorldOutput, CheckHelloWorldRepeatable,
		} {
			report.skip(name, "no library artifact")
		}
	}

	pass, fail, skip := report.Counts()
	v.log.Info("verification finished",
		zap.Int("passed", pass),
		zap.Int("failed", fail),
		zap.Int("skipped", skip))
	return report, nil
}

func (v *Verifier) checkEntry(ctx context.Context, wasm []byte, report *Report) error {
	res, err := v.RunEntry(ctx, wasm)
	if err != nil {
		if !errors.Is(err, errEntryMissing) && !errors.Is(err, errEntryTrap) {
			return err
		}
		report.fail(CheckEntryExitCode, err.Error())
		report.fail(CheckEntryOutput, err.Error())
		return nil
	}

	if res.ExitCode != 0 {
		report.fail(CheckEntryExitCode, fmt.Sprintf("exit code %d, want 0", res.ExitCode))
	} else {
		report.pass(CheckEntryExitCode)
	}

	want := stub.InitMessage + "\n"
	if res.Stdout != want {
		report.fail(CheckEntryOutput, fmt.Sprintf("stdout %q, want %q", res.Stdout, want))
	} else {
		report.pass(CheckEntryOutput)
	}
	return nil
}

func (v *Verifier) checkLibrary(ctx context.Context, wasm []byte, report *Report) error {
	sess, err := v.Open(ctx, wasm)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	report.Exports = sess.Exports()

	usable := make(map[string]bool, len(Expected))
	for _, exp := range Expected {
		name := "exports/" + exp.Name
		if !sess.HasExport(exp.Name) {
			report.fail(name, "missing export")
			continue
		}
		if err := sess.CheckSignature(exp.Name); err != nil {
			report.fail(name, err.Error())
			continue
		}
		report.pass(name)
		usable[exp.Name] = true
	}

	if usable[stub.ExportAdd] {
		report.record(CheckAddSum, v.checkAddCases(ctx, sess, sumCases))
		report.record(CheckAddWraparound, v.checkAddCases(ctx, sess, wrapCases))
		report.record(CheckAddCommutative, v.checkCommutative(ctx, sess))
		report.record(CheckAddRepeatable, v.checkAddRepeatable(ctx, sess))
	} else {
		for _, name := range []string{CheckAddSum, CheckAddWraparound, CheckAddCommutative, CheckAddRepeatable} {
			report.skip(name, "add export unusable")
		}
	}

	if usable[stub.ExportHelloWorld] {
		report.record(CheckHelloWorldOutput, v.checkHelloOutput(ctx, sess))
		report.record(CheckHelloWorldRepeatable, v.checkHelloRepeatable(ctx, sess))
	} else {
		report.skip(CheckHelloWorldOutput, "hello_world export unusable")
		report.skip(CheckHelloWorldRepeatable, "hello_world export unusable")
	}
	return nil
}

// checkAddCases returns a description of the first mismatch, or "".
func (v *Verifier) checkAddCases(ctx context.Context, sess *Session, cases []addCase) string {
	for _, c := range cases {
		got, err := sess.Add(ctx, c.a, c.b)
		if err != nil {
			return err.Error()
		}
		if want := stub.Add(c.a, c.b); got != want {
			v.log.Debug("add mismatch", zap.Int32("a", c.a), zap.Int32("b", c.b), zap.Int32("got", got))
			return fmt.Sprintf("add(%d, %d) = %d, want %d", c.a, c.b, got, want)
		}
	}
	return ""
}

func (v *Verifier) checkCommutative(ctx context.Context, sess *Session) string {
	cases := append(append([]addCase{}, sumCases...), wrapCases...)
	for _, c := range cases {
		ab, err := sess.Add(ctx, c.a, c.b)
		if err != nil {
			return err.Error()
		}
		ba, err := sess.Add(ctx, c.b, c.a)
		if err != nil {
			return err.Error()
		}
		if ab != ba {
			return fmt.Sprintf("add(%d, %d) = %d but add(%d, %d) = %d", c.a, c.b, ab, c.b, c.a, ba)
		}
	}
	return ""
}

func (v *Verifier) checkAddRepeatable(ctx context.Context, sess *Session) string {
	want := stub.Add(repeatCase.a, repeatCase.b)
	for i := 0; i < v.cfg.Repeat; i++ {
		got, err := sess.Add(ctx, repeatCase.a, repeatCase.b)
		if err != nil {
			return fmt.Sprintf("call %d: %v", i+1, err)
		}
		if got != want {
			return fmt.Sprintf("call %d: add(%d, %d) = %d, want %d", i+1, repeatCase.a, repeatCase.b, got, want)
		}
	}
	return ""
}

func (v *Verifier) checkHelloOutput(ctx context.Context, sess *Session) string {
	out, err := sess.HelloWorld(ctx)
	if err != nil {
		return err.Error()
	}
	return helloMismatch(out, sess.Stderr())
}

func (v *Verifier) checkHelloRepeatable(ctx context.Context, sess *Session) string {
	for i := 0; i < v.cfg.Repeat; i++ {
		out, err := sess.HelloWorld(ctx)
		if err != nil {
			return fmt.Sprintf("call %d: %v", i+1, err)
		}
		if detail := helloMismatch(out, sess.Stderr()); detail != "" {
			return fmt.Sprintf("call %d: %s", i+1, detail)
		}
	}
	return ""
}

func helloMismatch(stdout, stderr string) string {
	want := stub.Greeting + "\n"
	if stdout != want {
		return fmt.Sprintf("stdout %q, want %q", stdout, want)
	}
	if stderr != "" {
		return fmt.Sprintf("unexpected stderr %q", stderr)
	}
	return ""
}
