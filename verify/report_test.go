package verify

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReport_Summary(t *testing.T) {
	r := &Report{}
	r.pass(CheckAddSum)
	r.record(CheckAddCommutative, "")
	r.record(CheckAddWraparound, "add(1, 2) = 4, want 3")
	r.skip(CheckEntryOutput, "no command artifact")

	if r.Passed() {
		t.Error("Passed() = true with a failure")
	}
	pass, fail, skip := r.Counts()
	if pass != 2 || fail != 1 || skip != 1 {
		t.Errorf("Counts() = %d, %d, %d", pass, fail, skip)
	}

	failures := r.Failures()
	if len(failures) != 1 || failures[0].Name != CheckAddWraparound {
		t.Errorf("Failures() = %+v", failures)
	}

	c, ok := r.Check(CheckEntryOutput)
	if !ok || c.Status != StatusSkip {
		t.Errorf("Check(entry/output) = %+v, %v", c, ok)
	}
	if _, ok := r.Check("missing"); ok {
		t.Error("Check(missing) found")
	}
}

func TestReport_PassedWithSkips(t *testing.T) {
	r := &Report{}
	r.skip(CheckEntryExitCode, "no command artifact")
	if !r.Passed() {
		t.Error("skips alone must pass")
	}
}

func TestReport_JSON(t *testing.T) {
	r := &Report{
		Checks:  []Check{{Name: CheckAddSum, Status: StatusPass}},
		Exports: []Export{{Name: "add", Core: "(i32, i32) -> (i32)"}},
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"checks":[{"name":"add/sum","status":"pass"}],"exports":[{"name":"add","core":"(i32, i32) -> (i32)"}]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant %s", data, want)
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", data)
	}
	if _, ok := props["checks"]; !ok {
		t.Error("schema missing checks property")
	}
	for _, s := range []string{`"pass"`, `"fail"`, `"skip"`} {
		if !strings.Contains(string(data), s) {
			t.Errorf("schema missing status enum %s", s)
		}
	}
}
