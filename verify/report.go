package verify

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Check names, in the order Verify records them.
const (
	CheckEntryExitCode        = "entry/exit-code"
	CheckEntryOutput          = "entry/output"
	CheckExportAdd            = "exports/add"
	CheckExportHelloWorld     = "exports/hello_world"
	CheckAddSum               = "add/sum"
	CheckAddWraparound        = "add/wraparound"
	CheckAddCommutative       = "add/commutative"
	CheckAddRepeatable        = "add/repeatable"
	CheckHelloWorldOutput     = "hello_world/output"
	CheckHelloWorldRepeatable = "hello_world/repeatable"
)

// Check is one recorded verification result.
type Check struct {
	Name   string `json:"name" jsonschema:"description=Check identifier such as add/sum"`
	Status Status `json:"status" jsonschema:"enum=pass,enum=fail,enum=skip"`
	Detail string `json:"detail,omitempty" jsonschema:"description=Why the check failed or was skipped"`
}

// Export describes a function exported by the library artifact.
type Export struct {
	Name      string `json:"name"`
	Core      string `json:"core" jsonschema:"description=Core wasm signature of the export"`
	Signature string `json:"signature,omitempty" jsonschema:"description=Expected WIT signature when the export is part of the stub contract"`
}

// Report collects every check from one Verify run.
type Report struct {
	Checks  []Check  `json:"checks"`
	Exports []Export `json:"exports,omitempty"`
}

// Passed reports whether no check failed. Skipped checks do not count.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// Failures returns the failed checks in order.
func (r *Report) Failures() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			out = append(out, c)
		}
	}
	return out
}

// Check returns the named check, or false if it was not recorded.
func (r *Report) Check(name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Counts returns how many checks passed, failed and were skipped.
func (r *Report) Counts() (pass, fail, skip int) {
	for _, c := range r.Checks {
		switch c.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skip++
		}
	}
	return pass, fail, skip
}

func (r *Report) pass(name string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: StatusPass})
}

func (r *Report) fail(name, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: StatusFail, Detail: detail})
}

func (r *Report) skip(name, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: StatusSkip, Detail: detail})
}

// record passes name when detail is empty and fails it otherwise.
func (r *Report) record(name, detail string) {
	if detail == "" {
		r.pass(name)
		return
	}
	r.fail(name, detail)
}

// Schema returns the JSON Schema describing a serialized Report.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(&Report{})
	return json.MarshalIndent(s, "", "  ")
}
