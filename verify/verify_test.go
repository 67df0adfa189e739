package verify

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wasm-toolcheck/errors"
	"github.com/wippyai/wasm-toolcheck/reference"
	"github.com/wippyai/wasm-toolcheck/wasm"
)

var allChecks = []string{
	CheckEntryExitCode,
	CheckEntryOutput,
	CheckExportAdd,
	CheckExportHelloWorld,
	CheckAddSum,
	CheckAddWraparound,
	CheckAddCommutative,
	CheckAddRepeatable,
	CheckHelloWorldOutput,
	CheckHelloWorldRepeatable,
}

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	ctx := context.Background()
	v, err := New(ctx, nil)
	if err != nil {
		t.Fatalf("create verifier: %v", err)
	}
	t.Cleanup(func() { v.Close(ctx) })
	return v
}

func build(t *testing.T, opts reference.Options) []byte {
	t.Helper()
	bin, err := reference.Build(opts)
	if err != nil {
		t.Fatalf("build reference: %v", err)
	}
	return bin
}

func requireStatus(t *testing.T, r *Report, name string, want Status) Check {
	t.Helper()
	c, ok := r.Check(name)
	if !ok {
		t.Fatalf("check %s not recorded", name)
	}
	if c.Status != want {
		t.Errorf("%s: status %s (%s), want %s", name, c.Status, c.Detail, want)
	}
	return c
}

func TestVerify_ReferenceSingle(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	report, err := v.Verify(ctx, Single(build(t, reference.Options{Layout: reference.Both})))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if len(report.Checks) != len(allChecks) {
		t.Fatalf("got %d checks, want %d", len(report.Checks), len(allChecks))
	}
	for i, name := range allChecks {
		if report.Checks[i].Name != name {
			t.Errorf("check %d = %s, want %s", i, report.Checks[i].Name, name)
		}
		requireStatus(t, report, name, StatusPass)
	}
	if !report.Passed() {
		t.Errorf("report failed: %+v", report.Failures())
	}
}

func TestVerify_CommandAndReactor(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	report, err := v.Verify(ctx, Artifacts{
		Command: reference.Command(),
		Library: reference.Reactor(),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.Passed() {
		t.Fatalf("report failed: %+v", report.Failures())
	}

	names := make([]string, len(report.Exports))
	for i, e := range report.Exports {
		names[i] = e.Name
	}
	if got := strings.Join(names, ","); got != "_initialize,add,hello_world" {
		t.Errorf("exports = %s", got)
	}
	for _, e := range report.Exports {
		if e.Name == "add" {
			if e.Signature != "func(a: s32, b: s32) -> s32" {
				t.Errorf("add signature = %q", e.Signature)
			}
			if e.Core != "(i32, i32) -> (i32)" {
				t.Errorf("add core = %q", e.Core)
			}
		}
	}
}

func TestVerify_CommandLayoutAsLibrary(t *testing.T) {
	v := newVerifier(t)

	report, err := v.Verify(context.Background(), Single(reference.Command()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.Passed() {
		t.Errorf("report failed: %+v", report.Failures())
	}
}

func TestVerify_Faults(t *testing.T) {
	tests := []struct {
		opts    reference.Options
		name    string
		failed  []string
		skipped []string
		detail  string
	}{
		{
			name:   "wrong greeting",
			opts:   reference.Options{Layout: reference.Both, Greeting: "Hello from Wasm"},
			failed: []string{CheckHelloWorldOutput, CheckHelloWorldRepeatable},
			detail: "Hello from Wasm",
		},
		{
			name:   "wrong init message",
			opts:   reference.Options{Layout: reference.Both, InitMessage: "ready"},
			failed: []string{CheckEntryOutput},
			detail: "ready",
		},
		{
			name:   "non-zero exit",
			opts:   reference.Options{Layout: reference.Both, ExitCode: 3},
			failed: []string{CheckEntryExitCode},
			detail: "exit code 3",
		},
		{
			name:   "subtract instead of add",
			opts:   reference.Options{Layout: reference.Both, AddOp: wasm.OpI32Sub},
			failed: []string{CheckAddSum, CheckAddWraparound, CheckAddCommutative, CheckAddRepeatable},
			detail: "add(1, 2) = -1, want 3",
		},
		{
			name:   "multiply instead of add",
			opts:   reference.Options{Layout: reference.Both, AddOp: wasm.OpI32Mul},
			failed: []string{CheckAddSum, CheckAddWraparound, CheckAddRepeatable},
			detail: "add(1, 2) = 2, want 3",
		},
		{
			name:    "add not exported",
			opts:    reference.Options{Layout: reference.Both, Omit: []string{"add"}},
			failed:  []string{CheckExportAdd},
			skipped: []string{CheckAddSum, CheckAddWraparound, CheckAddCommutative, CheckAddRepeatable},
			detail:  "missing export",
		},
		{
			name:    "hello_world not exported",
			opts:    reference.Options{Layout: reference.Both, Omit: []string{"hello_world"}},
			failed:  []string{CheckExportHelloWorld},
			skipped: []string{CheckHelloWorldOutput, CheckHelloWorldRepeatable},
			detail:  "missing export",
		},
		{
			name:   "no entry point",
			opts:   reference.Options{Layout: reference.Reactor},
			failed: []string{CheckEntryExitCode, CheckEntryOutput},
			detail: "_start",
		},
	}

	v := newVerifier(t)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := v.Verify(ctx, Single(build(t, tt.opts)))
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if report.Passed() {
				t.Fatal("report passed, want failure")
			}

			failed := map[string]bool{}
			for _, name := range tt.failed {
				failed[name] = true
			}
			skipped := map[string]bool{}
			for _, name := range tt.skipped {
				skipped[name] = true
			}
			for _, name := range allChecks {
				switch {
				case failed[name]:
					requireStatus(t, report, name, StatusFail)
				case skipped[name]:
					requireStatus(t, report, name, StatusSkip)
				default:
					requireStatus(t, report, name, StatusPass)
				}
			}

			first := report.Failures()[0]
			if !strings.Contains(first.Detail, tt.detail) {
				t.Errorf("detail %q does not contain %q", first.Detail, tt.detail)
			}
		})
	}
}

func TestVerify_LibraryOnly(t *testing.T) {
	v := newVerifier(t)

	report, err := v.Verify(context.Background(), Artifacts{Library: reference.Reactor()})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireStatus(t, report, CheckEntryExitCode, StatusSkip)
	requireStatus(t, report, CheckEntryOutput, StatusSkip)
	requireStatus(t, report, CheckAddSum, StatusPass)
	if !report.Passed() {
		t.Errorf("skips must not fail the report: %+v", report.Failures())
	}
}

func TestVerify_CommandOnly(t *testing.T) {
	v := newVerifier(t)

	report, err := v.Verify(context.Background(), Artifacts{Command: reference.Command()})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireStatus(t, report, CheckEntryOutput, StatusPass)
	requireStatus(t, report, CheckHelloWorldOutput, StatusSkip)
	if len(report.Exports) != 0 {
		t.Errorf("exports recorded without library: %v", report.Exports)
	}
}

func TestVerify_NoArtifacts(t *testing.T) {
	v := newVerifier(t)

	_, err := v.Verify(context.Background(), Artifacts{})
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidInput}) {
		t.Errorf("got %v, want invalid input", err)
	}
}

func TestVerify_InvalidBinary(t *testing.T) {
	v := newVerifier(t)

	_, err := v.Verify(context.Background(), Single([]byte("not wasm")))
	if !errors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidData}) {
		t.Errorf("got %v, want load error", err)
	}
}

func TestVerify_Trap(t *testing.T) {
	m := &wasm.Module{}
	i32 := wasm.ValI32
	m.ExportFunc("add", m.AddFunc(
		wasm.FuncType{Params: []wasm.ValType{i32, i32}, Results: []wasm.ValType{i32}},
		wasm.FuncBody{Code: wasm.NewExpr().LocalGet(0).LocalGet(1).Op(wasm.OpI32Add).End()},
	))
	m.ExportFunc("hello_world", m.AddFunc(wasm.FuncType{}, wasm.FuncBody{
		Code: []byte{0x00, wasm.OpEnd}, // unreachable
	}))

	v := newVerifier(t)
	report, err := v.Verify(context.Background(), Artifacts{Library: m.Encode()})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	c := requireStatus(t, report, CheckHelloWorldOutput, StatusFail)
	if !strings.Contains(c.Detail, "trap") {
		t.Errorf("detail %q does not mention trap", c.Detail)
	}
	requireStatus(t, report, CheckAddSum, StatusPass)
}

func TestVerify_WrongSignature(t *testing.T) {
	m := &wasm.Module{}
	i64 := wasm.ValI64
	m.ExportFunc("add", m.AddFunc(
		wasm.FuncType{Params: []wasm.ValType{i64, i64}, Results: []wasm.ValType{i64}},
		wasm.FuncBody{Code: wasm.NewExpr().LocalGet(0).LocalGet(1).Op(0x7C).End()}, // i64.add
	))
	m.ExportFunc("hello_world", m.AddFunc(wasm.FuncType{}, wasm.FuncBody{Code: wasm.NewExpr().End()}))

	v := newVerifier(t)
	report, err := v.Verify(context.Background(), Artifacts{Library: m.Encode()})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	c := requireStatus(t, report, CheckExportAdd, StatusFail)
	if !strings.Contains(c.Detail, "want (i32, i32) -> (i32), got (i64, i64) -> (i64)") {
		t.Errorf("detail = %q", c.Detail)
	}
	requireStatus(t, report, CheckAddSum, StatusSkip)
	requireStatus(t, report, CheckExportHelloWorld, StatusPass)

	// hello_world prints nothing here.
	requireStatus(t, report, CheckHelloWorldOutput, StatusFail)
}

func TestVerify_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := context.Background()

	v, err := New(ctx, &Config{Repeat: 2, Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("create verifier: %v", err)
	}
	defer v.Close(ctx)

	if _, err := v.Verify(ctx, Single(build(t, reference.Options{Layout: reference.Both}))); err != nil {
		t.Fatalf("verify: %v", err)
	}

	entries := logs.FilterMessage("verification finished").All()
	if len(entries) != 1 {
		t.Fatalf("got %d summary entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["passed"] != int64(len(allChecks)) {
		t.Errorf("passed = %v, want %d", fields["passed"], len(allChecks))
	}
	if logs.FilterMessage("called export").Len() == 0 {
		t.Error("expected per-call debug entries")
	}
}
