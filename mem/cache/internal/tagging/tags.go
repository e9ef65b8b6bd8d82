// Package tagging keeps track of which memory blocks occupy which cache
// lines.
package tagging

// A Block of a cache is the information that is associated with a cache line.
type Block struct {
	SetID   int
	WayID   int
	Tag     uint32
	IsValid bool
	IsDirty bool

	// OrderKey is stamped by the active VictimFinder. LRU stores the last
	// access time in it, FIFO the insertion time.
	OrderKey uint64
}

// A Set is the group of blocks that a memory block can be placed in.
type Set struct {
	Blocks []Block
}

// TagArray is the collection of sets of a cache.
type TagArray interface {
	// Lookup returns the way that holds tag in the given set.
	Lookup(setID int, tag uint32) (wayID int, found bool)

	// GetSet returns the set with the given index.
	GetSet(setID int) *Set

	// Evict clears the valid and dirty bits of a block.
	Evict(setID, wayID int)

	// Install places tag into the block and marks it valid.
	Install(setID, wayID int, tag uint32, dirty bool)

	// MarkDirty sets the dirty bit of a valid block.
	MarkDirty(setID, wayID int)

	// NumSets returns the number of sets.
	NumSets() int

	// NumWays returns the number of blocks in each set.
	NumWays() int

	// NumValidBlocks counts the valid blocks across all the sets.
	NumValidBlocks() int
}

// NewTagArray creates a tag array with all blocks invalid.
func NewTagArray(numSets, numWays int) TagArray {
	t := &tagArrayImpl{
		numSets: numSets,
		numWays: numWays,
	}

	t.reset()

	return t
}

type tagArrayImpl struct {
	numSets int
	numWays int
	sets    []Set
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

func (t *tagArrayImpl) GetSet(setID int) *Set {
	return &t.sets[setID]
}

func (t *tagArrayImpl) Lookup(setID int, tag uint32) (int, bool) {
	set := &t.sets[setID]
	for i := range set.Blocks {
		block := &set.Blocks[i]
		if block.IsValid && block.Tag == tag {
			return i, true
		}
	}

	return 0, false
}

func (t *tagArrayImpl) Evict(setID, wayID int) {
	block := &t.sets[setID].Blocks[wayID]
	block.IsValid = false
	block.IsDirty = false
}

func (t *tagArrayImpl) Install(setID, wayID int, tag uint32, dirty bool) {
	block := &t.sets[setID].Blocks[wayID]
	block.IsValid = true
	block.Tag = tag
	block.IsDirty = dirty
}

func (t *tagArrayImpl) MarkDirty(setID, wayID int) {
	block := &t.sets[setID].Blocks[wayID]
	if !block.IsValid {
		panic("marking an invalid block dirty")
	}

	block.IsDirty = true
}

func (t *tagArrayImpl) NumValidBlocks() int {
	n := 0

	for i := range t.sets {
		for _, block := range t.sets[i].Blocks {
			if block.IsValid {
				n++
			}
		}
	}

	return n
}

func (t *tagArrayImpl) reset() {
	t.sets = make([]Set, t.numSets)
	for i := 0; i < t.numSets; i++ {
		t.sets[i].Blocks = make([]Block, t.numWays)
		for j := 0; j < t.numWays; j++ {
			t.sets[i].Blocks[j] = Block{
				SetID: i,
				WayID: j,
			}
		}
	}
}
