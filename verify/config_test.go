package verify

import (
	"context"
	"testing"
	"time"

	"github.com/wippyai/wasm-toolcheck/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Repeat != 3 {
		t.Errorf("Repeat = %d, want 3", cfg.Repeat)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{Repeat: 1}, false},
		{"no timeout", Config{Repeat: 5, Timeout: 0}, false},
		{"memory limit", Config{Repeat: 1, MemoryLimitPages: 16}, false},
		{"zero repeat", Config{Repeat: 0}, true},
		{"repeat too large", Config{Repeat: 1001}, true},
		{"negative timeout", Config{Repeat: 1, Timeout: -time.Second}, true},
		{"memory limit too large", Config{Repeat: 1, MemoryLimitPages: 65537}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil && !errors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}) {
				t.Errorf("error %v is not a config error", err)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), &Config{Repeat: 0})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_AppliesConfig(t *testing.T) {
	ctx := context.Background()
	v, err := New(ctx, &Config{Repeat: 7, MemoryLimitPages: 2})
	if err != nil {
		t.Fatalf("create verifier: %v", err)
	}
	defer v.Close(ctx)

	if v.Config().Repeat != 7 {
		t.Errorf("Repeat = %d, want 7", v.Config().Repeat)
	}
	if v.Config().Logger != nil {
		t.Error("Logger should stay nil in the stored config")
	}
	if v.log == nil {
		t.Error("verifier logger not set")
	}
}
