package verify

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-toolcheck/errors"
)

// Config holds configuration for verifier creation
type Config struct {
	// Logger receives per-check debug output. Nil uses Logger().
	Logger *zap.Logger

	// Repeat is how many times each export is invoked when checking that
	// calls are independent.
	Repeat int `validate:"min=1,max=1000"`

	// Timeout bounds each guest invocation. 0 disables the limit.
	Timeout time.Duration `validate:"gte=0"`

	// MemoryLimitPages caps guest memory in 64KiB pages.
	// 0 means the runtime default (65536 pages = 4GB).
	MemoryLimitPages uint32 `validate:"lte=65536"`
}

// DefaultConfig returns the configuration used when New receives nil.
func DefaultConfig() Config {
	return Config{
		Repeat:  3,
		Timeout: 10 * time.Second,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field bounds.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.InvalidConfig(err)
	}
	return nil
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return Logger()
}
