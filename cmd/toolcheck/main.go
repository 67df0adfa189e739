// Command toolcheck verifies that a WebAssembly toolchain produced a working
// build of the verification stub.
//
//	toolcheck -wasm stub.wasm
//	toolcheck -cmd stub.wasm -lib stub_reactor.wasm
//	toolcheck -selftest
//	toolcheck -emit reference.wasm -layout both
//	toolcheck -lib stub_reactor.wasm -i
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	toolcheck "github.com/wippyai/wasm-toolcheck"
	"github.com/wippyai/wasm-toolcheck/reference"
	"github.com/wippyai/wasm-toolcheck/verify"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type options struct {
	wasmFile    string
	cmdFile     string
	libFile     string
	emit        string
	layout      string
	repeat      int
	timeout     time.Duration
	selftest    bool
	verbose     bool
	jsonOut     bool
	schema      bool
	interactive bool
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("toolcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.wasmFile, "wasm", "", "Stub binary used for both entry and export checks")
	fs.StringVar(&o.cmdFile, "cmd", "", "Command build of the stub (exports _start)")
	fs.StringVar(&o.libFile, "lib", "", "Library build of the stub (exports add and hello_world)")
	fs.BoolVar(&o.selftest, "selftest", false, "Verify the built-in reference binaries")
	fs.StringVar(&o.emit, "emit", "", "Write the reference stub binary to this path and exit")
	fs.StringVar(&o.layout, "layout", "command", "Layout for -emit: command, reactor or both")
	fs.IntVar(&o.repeat, "repeat", 3, "Invocations per export for repeatability checks")
	fs.DurationVar(&o.timeout, "timeout", 10*time.Second, "Limit for each guest invocation (0 disables)")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.jsonOut, "json", false, "Print the report as JSON")
	fs.BoolVar(&o.schema, "schema", false, "Print the JSON Schema of the report and exit")
	fs.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: toolcheck -wasm <file.wasm> | -cmd <file.wasm> [-lib <file.wasm>] | -selftest")
		fmt.Fprintln(stderr, "       toolcheck -emit <file.wasm> [-layout command|reactor|both]")
		fmt.Fprintln(stderr, "       toolcheck -lib <file.wasm> -i  (interactive mode)")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.schema || o.emit != "" {
		return o, nil
	}

	sources := 0
	if o.wasmFile != "" {
		sources++
	}
	if o.cmdFile != "" || o.libFile != "" {
		sources++
	}
	if o.selftest {
		sources++
	}
	if sources != 1 {
		fs.Usage()
		return o, fmt.Errorf("exactly one of -wasm, -cmd/-lib or -selftest is required")
	}
	if o.interactive && o.jsonOut {
		return o, fmt.Errorf("-i and -json are mutually exclusive")
	}
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitUsage
	}

	if opts.schema {
		data, err := verify.Schema()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFail
		}
		fmt.Fprintln(stdout, string(data))
		return exitOK
	}

	if opts.emit != "" {
		if err := emit(opts.emit, opts.layout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFail
		}
		fmt.Fprintf(stdout, "wrote %s reference module to %s\n", opts.layout, opts.emit)
		return exitOK
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFail
		}
	}
	defer logger.Sync()

	art, err := loadArtifacts(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFail
	}

	cfg := &verify.Config{
		Repeat:  opts.repeat,
		Timeout: opts.timeout,
		Logger:  logger,
	}

	if opts.interactive {
		if art.Library == nil {
			fmt.Fprintln(stderr, "Error: interactive mode needs -lib, -wasm or -selftest")
			return exitUsage
		}
		if err := runInteractive(cfg, art.Library); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFail
		}
		return exitOK
	}

	report, err := check(cfg, art)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFail
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFail
		}
	} else {
		renderReport(stdout, report, isTerminal(stdout))
	}

	if !report.Passed() {
		return exitFail
	}
	return exitOK
}

func check(cfg *verify.Config, art verify.Artifacts) (*verify.Report, error) {
	return toolcheck.Check(context.Background(), art, cfg)
}

func loadArtifacts(opts options) (verify.Artifacts, error) {
	switch {
	case opts.selftest:
		return verify.Artifacts{
			Command: reference.Command(),
			Library: reference.Reactor(),
		}, nil
	case opts.wasmFile != "":
		return toolcheck.ReadArtifacts(opts.wasmFile, opts.wasmFile)
	default:
		return toolcheck.ReadArtifacts(opts.cmdFile, opts.libFile)
	}
}

func emit(path, layoutName string) error {
	layout, err := reference.ParseLayout(layoutName)
	if err != nil {
		return err
	}
	bin, err := reference.Build(reference.Options{Layout: layout})
	if err != nil {
		return fmt.Errorf("build reference: %w", err)
	}
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
