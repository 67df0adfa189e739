package toolcheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/wasm-toolcheck/reference"
	"github.com/wippyai/wasm-toolcheck/verify"
)

func TestSelfTest(t *testing.T) {
	report, err := SelfTest(context.Background(), nil)
	if err != nil {
		t.Fatalf("self test: %v", err)
	}
	if !report.Passed() {
		t.Errorf("self test failed: %+v", report.Failures())
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	both := filepath.Join(dir, "both.wasm")
	bin, err := reference.Build(reference.Options{Layout: reference.Both})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := os.WriteFile(both, bin, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		cmd, lib  string
		wantSkips int
	}{
		{"same file", both, both, 0},
		{"command only", both, "", 8},
		{"library only", "", both, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := CheckFiles(context.Background(), tt.cmd, tt.lib, nil)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if !report.Passed() {
				t.Errorf("failures: %+v", report.Failures())
			}
			if _, _, skip := report.Counts(); skip != tt.wantSkips {
				t.Errorf("skipped %d, want %d", skip, tt.wantSkips)
			}
		})
	}
}

func TestCheckFiles_Missing(t *testing.T) {
	_, err := CheckFiles(context.Background(), filepath.Join(t.TempDir(), "nope.wasm"), "", nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadArtifacts_SharesBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.wasm")
	if err := os.WriteFile(path, reference.Command(), 0o644); err != nil {
		t.Fatal(err)
	}
	art, err := ReadArtifacts(path, path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(art.Command) == 0 || &art.Command[0] != &art.Library[0] {
		t.Error("same path should load one shared binary")
	}
}

func TestCheck_InvalidConfig(t *testing.T) {
	_, err := Check(context.Background(), verify.Single(reference.Command()), &verify.Config{Repeat: 0})
	if err == nil {
		t.Fatal("expected config error")
	}
}
