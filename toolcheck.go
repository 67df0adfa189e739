package toolcheck

import (
	"context"
	"fmt"
	"os"

	"github.com/wippyai/wasm-toolcheck/reference"
	"github.com/wippyai/wasm-toolcheck/verify"
)

// Check verifies art with a fresh verifier. A nil cfg uses verify.DefaultConfig.
func Check(ctx context.Context, art verify.Artifacts, cfg *verify.Config) (*verify.Report, error) {
	v, err := verify.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	defer v.Close(ctx)

	return v.Verify(ctx, art)
}

// CheckFiles reads and verifies the command and library builds of the stub.
// Either path may be empty to skip its checks; pass the same path twice for a
// binary that serves both roles.
func CheckFiles(ctx context.Context, cmdPath, libPath string, cfg *verify.Config) (*verify.Report, error) {
	art, err := ReadArtifacts(cmdPath, libPath)
	if err != nil {
		return nil, err
	}
	return Check(ctx, art, cfg)
}

// ReadArtifacts loads the binaries at cmdPath and libPath. Empty paths leave
// the matching artifact nil.
func ReadArtifacts(cmdPath, libPath string) (verify.Artifacts, error) {
	var art verify.Artifacts
	if cmdPath != "" {
		data, err := os.ReadFile(cmdPath)
		if err != nil {
			return art, fmt.Errorf("read command file: %w", err)
		}
		art.Command = data
	}
	if libPath != "" {
		if libPath == cmdPath {
			art.Library = art.Command
			return art, nil
		}
		data, err := os.ReadFile(libPath)
		if err != nil {
			return art, fmt.Errorf("read library file: %w", err)
		}
		art.Library = data
	}
	return art, nil
}

// SelfTest verifies the built-in reference binaries. A failing self test
// means the host runtime, not a toolchain, is broken.
func SelfTest(ctx context.Context, cfg *verify.Config) (*verify.Report, error) {
	return Check(ctx, verify.Artifacts{
		Command: reference.Command(),
		Library: reference.Reactor(),
	}, cfg)
}
