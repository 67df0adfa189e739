package verify

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-toolcheck/stub"
)

// Param is a named WIT-typed parameter.
type Param struct {
	Type wit.Type
	Name string
}

// Signature describes an export in WIT terms.
type Signature struct {
	Params  []Param
	Results []wit.Type
}

// String renders the signature as "func(a: s32, b: s32) -> s32".
func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Name + ": " + TypeName(p.Type)
	}
	out := "func(" + strings.Join(params, ", ") + ")"
	switch len(s.Results) {
	case 0:
	case 1:
		out += " -> " + TypeName(s.Results[0])
	default:
		results := make([]string, len(s.Results))
		for i, r := range s.Results {
			results[i] = TypeName(r)
		}
		out += " -> (" + strings.Join(results, ", ") + ")"
	}
	return out
}

// Core flattens the signature to core value types.
func (s Signature) Core() (params, results []api.ValueType, err error) {
	for _, p := range s.Params {
		vt, err := coreType(p.Type)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, vt)
	}
	for _, r := range s.Results {
		vt, err := coreType(r)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, vt)
	}
	return params, results, nil
}

// ExpectedExport pairs an export name with its required signature.
type ExpectedExport struct {
	Name      string
	Signature Signature
}

// Expected lists the exports every stub build must provide, in check order.
var Expected = []ExpectedExport{
	{
		Name: stub.ExportAdd,
		Signature: Signature{
			Params:  []Param{{Name: "a", Type: wit.S32{}}, {Name: "b", Type: wit.S32{}}},
			Results: []wit.Type{wit.S32{}},
		},
	},
	{
		Name:      stub.ExportHelloWorld,
		Signature: Signature{},
	},
}

// ExpectedSignature returns the signature required for name.
func ExpectedSignature(name string) (Signature, bool) {
	for _, e := range Expected {
		if e.Name == name {
			return e.Signature, true
		}
	}
	return Signature{}, false
}

func coreType(t wit.Type) (api.ValueType, error) {
	switch t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.Char:
		return api.ValueTypeI32, nil
	case wit.U64, wit.S64:
		return api.ValueTypeI64, nil
	case wit.F32:
		return api.ValueTypeF32, nil
	case wit.F64:
		return api.ValueTypeF64, nil
	default:
		return 0, fmt.Errorf("WIT type %s has no single core value type", TypeName(t))
	}
}

// TypeName returns the WIT spelling of t.
func TypeName(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// coreString renders core params and results as "(i32, i32) -> (i32)".
func coreString(params, results []api.ValueType) string {
	return "(" + joinValueTypes(params) + ") -> (" + joinValueTypes(results) + ")"
}

func joinValueTypes(ts []api.ValueType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}

func equalValueTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
