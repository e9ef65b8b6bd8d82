package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/csim/mem/cache"
)

const usage = "Usage: csim <sets> <blocks> <bytes> " +
	"<write-allocate|no-write-allocate> " +
	"<write-through|write-back> <lru|fifo>"

var errUsage = errors.New(usage)

func checkArgs(_ *cobra.Command, args []string) error {
	if len(args) != 6 {
		return errUsage
	}

	return nil
}

// parseConfig turns the six positional arguments into a cache
// configuration. Checks run in argument order so that the first bad
// argument is the one reported.
func parseConfig(args []string) (cache.Config, error) {
	config := cache.Config{}

	if len(args) != 6 {
		return config, errUsage
	}

	config.NumSets = atoi(args[0])
	if !cache.IsPowerOfTwo(config.NumSets) {
		return config, errors.New("Set count must be a power of 2")
	}

	config.NumWays = atoi(args[1])
	if !cache.IsPowerOfTwo(config.NumWays) {
		return config, errors.New("Blocks per set must be a power of 2")
	}

	config.BlockSize = atoi(args[2])
	if !cache.IsPowerOfTwo(config.BlockSize) || config.BlockSize < 4 {
		return config, errors.New("Block size must be a power of 2 and at least 4")
	}

	switch args[3] {
	case "write-allocate":
		config.WriteAllocate = true
	case "no-write-allocate":
		config.WriteAllocate = false
	default:
		return config, errors.New("Invalid write allocate policy")
	}

	switch args[4] {
	case "write-through":
		config.WriteThrough = true
	case "write-back":
		config.WriteThrough = false
	default:
		return config, errors.New("Invalid write policy")
	}

	if !config.WriteAllocate && !config.WriteThrough {
		return config, errors.New(
			"no-write-allocate and write-back is not a valid combination")
	}

	policy, err := cache.ParsePolicy(args[5])
	if err != nil {
		return config, errors.New("Invalid eviction policy")
	}

	config.Policy = policy

	err = config.Validate()
	if err != nil {
		return config, fmt.Errorf("invalid cache geometry: %w", err)
	}

	return config, nil
}

// atoi returns 0 for anything that is not a number, which then fails the
// power-of-two check.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
