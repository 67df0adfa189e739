package stub

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b int32
		want int32
	}{
		{"small", 2, 3, 5},
		{"zero", 0, 0, 0},
		{"negative", -7, -8, -15},
		{"mixed", 123456, -654321, -530865},
		{"max plus one wraps", math.MaxInt32, 1, math.MinInt32},
		{"min minus one wraps", math.MinInt32, -1, math.MaxInt32},
		{"max plus max", math.MaxInt32, math.MaxInt32, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Add(tt.a, tt.b); got != tt.want {
				t.Errorf("Add(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAdd_MatchesInt64WithoutOverflow(t *testing.T) {
	values := []int32{0, 1, -1, 42, -42, 1 << 20, -(1 << 20), math.MaxInt32 / 2, math.MinInt32 / 2}
	for _, a := range values {
		for _, b := range values {
			want := int64(a) + int64(b)
			if want > math.MaxInt32 || want < math.MinInt32 {
				continue
			}
			if got := Add(a, b); int64(got) != want {
				t.Errorf("Add(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestAdd_Commutative(t *testing.T) {
	values := []int32{0, 1, -1, 17, math.MaxInt32, math.MinInt32, -99999}
	for _, a := range values {
		for _, b := range values {
			if Add(a, b) != Add(b, a) {
				t.Errorf("Add(%d, %d) != Add(%d, %d)", a, b, b, a)
			}
		}
	}
}

func TestHelloWorld(t *testing.T) {
	var buf bytes.Buffer
	HelloWorld(&buf)

	if got := buf.String(); got != "Hello from WebAssembly!\n" {
		t.Errorf("HelloWorld wrote %q", got)
	}
}

func TestHelloWorld_Repeatable(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		buf.Reset()
		HelloWorld(&buf)
		if got := buf.String(); got != Greeting+"\n" {
			t.Fatalf("call %d wrote %q", i, got)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestHelloWorld_IgnoresWriteErrors(t *testing.T) {
	HelloWorld(failingWriter{})
	Init(failingWriter{})
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)

	if got := buf.String(); got != "WebAssembly module initialized successfully!\n" {
		t.Errorf("Init wrote %q", got)
	}
}
