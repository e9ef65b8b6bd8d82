package cache

import (
	"fmt"
	"math/bits"
	"strings"
)

// Policy selects how victims are chosen when a set is full.
type Policy int

// The replacement policies that a cache can use.
const (
	PolicyLRU Policy = iota
	PolicyFIFO
)

// String returns the name of the policy as it is written on the command line.
func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "lru"
	case PolicyFIFO:
		return "fifo"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "lru" or "fifo" (case-insensitive) into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "lru":
		return PolicyLRU, nil
	case "fifo":
		return PolicyFIFO, nil
	default:
		return 0, &ConfigError{
			Field:  "Policy",
			Value:  s,
			Reason: "invalid eviction policy",
		}
	}
}

// Config describes the geometry and write behavior of a cache. A Config is
// a plain value; it is checked by Validate and is never changed once a cache
// is built from it.
type Config struct {
	NumSets       int    `json:"num_sets"`
	NumWays       int    `json:"num_ways"`
	BlockSize     int    `json:"block_size"`
	WriteAllocate bool   `json:"write_allocate"`
	WriteThrough  bool   `json:"write_through"`
	Policy        Policy `json:"policy"`
}

// Validate reports the first violated constraint as a *ConfigError.
func (c Config) Validate() error {
	if !IsPowerOfTwo(c.NumSets) {
		return &ConfigError{
			Field:  "NumSets",
			Value:  c.NumSets,
			Reason: "set count must be a power of 2",
		}
	}

	if !IsPowerOfTwo(c.NumWays) {
		return &ConfigError{
			Field:  "NumWays",
			Value:  c.NumWays,
			Reason: "blocks per set must be a power of 2",
		}
	}

	if !IsPowerOfTwo(c.BlockSize) || c.BlockSize < 4 {
		return &ConfigError{
			Field:  "BlockSize",
			Value:  c.BlockSize,
			Reason: "block size must be a power of 2 and at least 4",
		}
	}

	if log2(c.NumSets)+log2(c.BlockSize) > addressBits {
		return &ConfigError{
			Field:  "NumSets",
			Value:  c.NumSets,
			Reason: "index and offset bits do not fit in a 32-bit address",
		}
	}

	if !c.WriteAllocate && !c.WriteThrough {
		return &ConfigError{
			Field:  "WriteAllocate",
			Value:  c.WriteAllocate,
			Reason: "no-write-allocate and write-back is not a valid combination",
		}
	}

	if c.Policy != PolicyLRU && c.Policy != PolicyFIFO {
		return &ConfigError{
			Field:  "Policy",
			Value:  c.Policy,
			Reason: "invalid eviction policy",
		}
	}

	return nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 works on powers of two only.
func log2(n int) uint {
	return uint(bits.TrailingZeros(uint(n)))
}
