// Package cache models a single set-associative data cache and estimates the
// cycles a stream of loads and stores would take.
package cache

import (
	"fmt"

	"github.com/sarchlab/csim/mem/cache/internal/tagging"
	"github.com/sarchlab/csim/sim/hooking"
)

const (
	hitCycles    = 1
	memoryCycles = 100
	bytesPerWord = 4
)

// Cache is a set-associative cache. It is not safe for concurrent use.
type Cache struct {
	hooking.HookableBase

	name         string
	config       Config
	decoder      AddressDecoder
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder

	// fetchCycles is the cost of moving one block between cache and memory.
	fetchCycles uint64
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// Config returns the configuration the cache was built with.
func (c *Cache) Config() Config {
	return c.config
}

// Decoder returns the address decoder of the cache.
func (c *Cache) Decoder() AddressDecoder {
	return c.decoder
}

// PolicyName returns the name of the replacement policy in use.
func (c *Cache) PolicyName() string {
	return c.victimFinder.Name()
}

// Line returns a copy of the block in the given set and way.
func (c *Cache) Line(setID, wayID int) tagging.Block {
	return c.tags.GetSet(setID).Blocks[wayID]
}

// NumValidLines counts the lines that currently hold a block.
func (c *Cache) NumValidLines() int {
	return c.tags.NumValidBlocks()
}

// Access dispatches to HandleLoad or HandleStore.
func (c *Cache) Access(op Op, addr uint32, stats *Statistics) (uint64, error) {
	switch op {
	case OpLoad:
		return c.HandleLoad(addr, stats), nil
	case OpStore:
		return c.HandleStore(addr, stats), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownOp, op)
	}
}

// HandleLoad reads addr through the cache and returns the cycles spent. If
// stats is not nil, its load counters are updated.
func (c *Cache) HandleLoad(addr uint32, stats *Statistics) uint64 {
	info := c.startAccess(OpLoad, addr)
	set := c.tags.GetSet(int(info.SetID))

	wayID, hit := c.tags.Lookup(int(info.SetID), info.Tag)
	if hit {
		info.Hit = true
		info.WayID = wayID
		info.Cycles = hitCycles
		c.victimFinder.OnHit(set, wayID)
	} else {
		info.Cycles = c.allocate(&info, false)
	}

	if stats != nil {
		stats.TotalLoads++
		if hit {
			stats.LoadHits++
		} else {
			stats.LoadMisses++
		}
	}

	c.finishAccess(info)

	return info.Cycles
}

// HandleStore writes addr through the cache and returns the cycles spent. If
// stats is not nil, its store counters are updated.
func (c *Cache) HandleStore(addr uint32, stats *Statistics) uint64 {
	info := c.startAccess(OpStore, addr)
	set := c.tags.GetSet(int(info.SetID))

	wayID, hit := c.tags.Lookup(int(info.SetID), info.Tag)
	switch {
	case hit:
		info.Hit = true
		info.WayID = wayID
		info.Cycles = hitCycles
		if c.config.WriteThrough {
			info.Cycles += memoryCycles
		} else {
			c.tags.MarkDirty(int(info.SetID), wayID)
		}
		c.victimFinder.OnHit(set, wayID)
	case c.config.WriteAllocate:
		info.Cycles = c.allocate(&info, !c.config.WriteThrough)
		if c.config.WriteThrough {
			info.Cycles += memoryCycles
		}
	default:
		// The value goes straight to memory. The set is left as it is and
		// the replacement policy is not told about the access.
		info.Cycles = memoryCycles
	}

	if stats != nil {
		stats.TotalStores++
		if hit {
			stats.StoreHits++
		} else {
			stats.StoreMisses++
		}
	}

	c.finishAccess(info)

	return info.Cycles
}

// allocate brings the block described by info into its set, writing back
// the victim first if it is dirty. It returns the memory cycles spent.
func (c *Cache) allocate(info *AccessInfo, dirty bool) uint64 {
	setID := int(info.SetID)
	set := c.tags.GetSet(setID)
	wayID := c.victimFinder.FindVictim(set)
	victim := set.Blocks[wayID]

	cycles := c.fetchCycles

	if victim.IsValid {
		info.Evicted = true
		info.EvictedAddress = c.decoder.Compose(victim.Tag, info.SetID, 0)

		if victim.IsDirty {
			info.WriteBack = true
			cycles += c.fetchCycles
		}
	}

	c.tags.Evict(setID, wayID)
	c.tags.Install(setID, wayID, info.Tag, dirty)
	c.victimFinder.OnInstall(set, wayID)

	info.Allocated = true
	info.WayID = wayID

	return cycles
}
