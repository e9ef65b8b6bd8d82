package cache

import (
	"github.com/sarchlab/csim/mem/cache/internal/tagging"
	"github.com/sarchlab/csim/sim/hooking"
)

// A Builder can build caches.
type Builder struct {
	name   string
	config Config
	hooks  []hooking.Hook
}

// MakeBuilder creates a builder with default parameter setting: 256 sets,
// 4 ways, 16-byte blocks, write-allocate, write-back and LRU.
func MakeBuilder() Builder {
	return Builder{
		name: "Cache",
		config: Config{
			NumSets:       256,
			NumWays:       4,
			BlockSize:     16,
			WriteAllocate: true,
			WriteThrough:  false,
			Policy:        PolicyLRU,
		},
	}
}

// WithName sets the name that the cache reports to hooks.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithConfig replaces the whole configuration.
func (b Builder) WithConfig(config Config) Builder {
	b.config = config
	return b
}

// WithNumSets sets the number of sets.
func (b Builder) WithNumSets(n int) Builder {
	b.config.NumSets = n
	return b
}

// WithWayAssociativity sets the way associativity the builder builds.
func (b Builder) WithWayAssociativity(n int) Builder {
	b.config.NumWays = n
	return b
}

// WithBlockSize sets the number of bytes in a cache line.
func (b Builder) WithBlockSize(n int) Builder {
	b.config.BlockSize = n
	return b
}

// WithWriteAllocate sets if a store miss brings the block into the cache.
func (b Builder) WithWriteAllocate(writeAllocate bool) Builder {
	b.config.WriteAllocate = writeAllocate
	return b
}

// WithWriteThrough sets if stores are sent to memory right away (true) or
// kept dirty in the cache until eviction (false).
func (b Builder) WithWriteThrough(writeThrough bool) Builder {
	b.config.WriteThrough = writeThrough
	return b
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.config.Policy = policy
	return b
}

// WithHook registers a hook on the cache once it is built.
func (b Builder) WithHook(hook hooking.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], hook)
	return b
}

// Build validates the configuration and creates a cache. No cache is
// returned if the configuration is invalid.
func (b Builder) Build() (*Cache, error) {
	err := b.config.Validate()
	if err != nil {
		return nil, err
	}

	c := &Cache{
		name:         b.name,
		config:       b.config,
		decoder:      NewAddressDecoder(b.config.NumSets, b.config.BlockSize),
		tags:         tagging.NewTagArray(b.config.NumSets, b.config.NumWays),
		victimFinder: b.buildVictimFinder(),
		fetchCycles:  memoryCycles * uint64(b.config.BlockSize/bytesPerWord),
	}

	for _, hook := range b.hooks {
		c.AcceptHook(hook)
	}

	return c, nil
}

func (b Builder) buildVictimFinder() tagging.VictimFinder {
	switch b.config.Policy {
	case PolicyLRU:
		return tagging.NewLRUVictimFinder()
	case PolicyFIFO:
		return tagging.NewFIFOVictimFinder()
	default:
		panic("unknown policy " + b.config.Policy.String())
	}
}
