package tagging

// A VictimFinder decides which block should be evicted and keeps the
// bookkeeping it needs to make that decision.
type VictimFinder interface {
	// Name returns the short name of the replacement policy.
	Name() string

	// FindVictim returns the way to replace in the set.
	FindVictim(set *Set) int

	// OnHit is called after a lookup hits the given way.
	OnHit(set *Set, wayID int)

	// OnInstall is called after a new block is placed in the given way.
	OnInstall(set *Set, wayID int)
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct {
	clock uint64
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	return new(LRUVictimFinder)
}

// Name returns "lru".
func (e *LRUVictimFinder) Name() string {
	return "lru"
}

// FindVictim returns the least recently used block in a set
func (e *LRUVictimFinder) FindVictim(set *Set) int {
	return oldestBlock(set)
}

// OnHit marks the block as the most recently used.
func (e *LRUVictimFinder) OnHit(set *Set, wayID int) {
	e.clock++
	set.Blocks[wayID].OrderKey = e.clock
}

// OnInstall marks the block as the most recently used.
func (e *LRUVictimFinder) OnInstall(set *Set, wayID int) {
	e.clock++
	set.Blocks[wayID].OrderKey = e.clock
}

// FIFOVictimFinder evicts the block that was installed first. Hits do not
// change the order.
type FIFOVictimFinder struct {
	clock uint64
}

// NewFIFOVictimFinder returns a newly constructed fifo evictor.
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return new(FIFOVictimFinder)
}

// Name returns "fifo".
func (e *FIFOVictimFinder) Name() string {
	return "fifo"
}

// FindVictim returns the earliest installed block in a set.
func (e *FIFOVictimFinder) FindVictim(set *Set) int {
	return oldestBlock(set)
}

// OnHit does nothing.
func (e *FIFOVictimFinder) OnHit(_ *Set, _ int) {
}

// OnInstall records the insertion order of the block.
func (e *FIFOVictimFinder) OnInstall(set *Set, wayID int) {
	e.clock++
	set.Blocks[wayID].OrderKey = e.clock
}

// oldestBlock returns the first invalid way if there is one. Otherwise, it
// returns the way with the smallest order key, preferring lower ways on ties.
func oldestBlock(set *Set) int {
	for i, block := range set.Blocks {
		if !block.IsValid {
			return i
		}
	}

	victim := 0
	for i := 1; i < len(set.Blocks); i++ {
		if set.Blocks[i].OrderKey < set.Blocks[victim].OrderKey {
			victim = i
		}
	}

	return victim
}
