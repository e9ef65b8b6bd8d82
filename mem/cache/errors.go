package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every configuration error.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// ErrUnknownOp is returned when an access is neither a load nor a store.
var ErrUnknownOp = errors.New("unknown operation")

// A ConfigError tells which field of a Config is not acceptable.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s (%s = %v)",
		ErrInvalidConfig, e.Reason, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
