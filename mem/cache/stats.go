package cache

// Statistics accumulates the outcome of a simulation run. The cache
// increments the access counters; TotalCycles is owned by the caller, which
// adds the cost returned by each access.
type Statistics struct {
	TotalLoads  uint64 `json:"total_loads"`
	TotalStores uint64 `json:"total_stores"`
	LoadHits    uint64 `json:"load_hits"`
	LoadMisses  uint64 `json:"load_misses"`
	StoreHits   uint64 `json:"store_hits"`
	StoreMisses uint64 `json:"store_misses"`
	TotalCycles uint64 `json:"total_cycles"`
}

// AddCycles folds the cost of one access into the running total.
func (s *Statistics) AddCycles(cycles uint64) {
	s.TotalCycles += cycles
}

// Accesses returns the number of loads and stores seen.
func (s Statistics) Accesses() uint64 {
	return s.TotalLoads + s.TotalStores
}

// Hits returns load hits plus store hits.
func (s Statistics) Hits() uint64 {
	return s.LoadHits + s.StoreHits
}

// Misses returns load misses plus store misses.
func (s Statistics) Misses() uint64 {
	return s.LoadMisses + s.StoreMisses
}

// HitRate returns hits over accesses, or 0 before the first access.
func (s Statistics) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.Hits()) / float64(s.Accesses())
}
